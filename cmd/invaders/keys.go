package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/platform/term"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the controls",
	Long:  `Shows the key bindings in effect, including any set in the config file.`,
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	h := help.New()
	h.ShowAll = true

	fmt.Println(titleStyle.Render("Controls"))
	fmt.Println()
	fmt.Println(h.View(term.NewKeyMap(cfg.Keys)))
	return nil
}
