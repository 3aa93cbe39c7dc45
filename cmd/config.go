package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the lsvg configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appDirs.ConfigPath

		// Write the defaults on first use so the user edits a real file
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := appConfig.Save(path); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}
