package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/ruminaider/combobox/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage combobox settings",
	Long:  "Commands for creating and inspecting ~/.combobox/config.yaml.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings file interactively",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		data, err := config.MarshalSettings(sess.settings.Settings())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", sess.settings.Path())
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().Bool("force", false, "overwrite an existing settings file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(sess.settings.Path()); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", sess.settings.Path())
	}

	s := sess.settings.Settings()
	maxVisible := strconv.Itoa(s.MaxVisible)
	width := strconv.Itoa(s.Width)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Placeholder").
				Value(&s.Placeholder),
			huh.NewConfirm().
				Title("Allow multiple selection by default?").
				Value(&s.Multiple),
			huh.NewConfirm().
				Title("Show a search field?").
				Value(&s.Searchable),
			huh.NewSelect[string]().
				Title("Matching").
				Options(
					huh.NewOption("Substring", "substring"),
					huh.NewOption("Fuzzy", "fuzzy"),
				).
				Value(&s.Match),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Size").
				Options(
					huh.NewOption("Small", "sm"),
					huh.NewOption("Medium", "md"),
					huh.NewOption("Large", "lg"),
				).
				Value(&s.Size),
			huh.NewSelect[string]().
				Title("Border").
				Options(
					huh.NewOption("Flat", "none"),
					huh.NewOption("Rounded", "soft"),
					huh.NewOption("Thick", "hard"),
				).
				Value(&s.Shadow),
			huh.NewSelect[string]().
				Title("Accent").
				Options(
					huh.NewOption("Default", "default"),
					huh.NewOption("Primary", "primary"),
					huh.NewOption("Danger", "danger"),
				).
				Value(&s.Variant),
			huh.NewInput().
				Title("Visible rows").
				Validate(validateCount).
				Value(&maxVisible),
			huh.NewInput().
				Title("Trigger width (0 for the size default)").
				Validate(validateCount).
				Value(&width),
		),
	).WithTheme(huh.ThemeCatppuccin()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	s.MaxVisible, _ = strconv.Atoi(maxVisible)
	s.Width, _ = strconv.Atoi(width)
	if err := sess.settings.Save(s); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", sess.settings.Path())
	return nil
}

// validateCount accepts non-negative integers.
func validateCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("enter a whole number, 0 or more")
	}
	return nil
}
