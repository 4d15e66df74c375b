package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game catalog commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameStatusCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/games"
			if status != "" {
				path += "?" + url.Values{"status": {status}}.Encode()
			}

			var result GameList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active, maintenance, deprecated")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult
			if err := client.Get("/api/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameCreateCmd() *cobra.Command {
	var name, description, thumbnail, modes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a game to the catalog",
		Example: `  gamehub game create --name Chess \
    --modes '[{"id":"duel","name":"Duel","players":2,"minWager":0}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var gameModes []GameMode
			if err := json.Unmarshal([]byte(modes), &gameModes); err != nil {
				return fmt.Errorf("--modes must be a JSON array of modes: %w", err)
			}

			req := map[string]any{
				"name":        name,
				"description": description,
				"thumbnail":   thumbnail,
				"modes":       gameModes,
			}
			var result GameResult
			if err := client.Post("/api/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Game description")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Thumbnail URL")
	cmd.Flags().StringVar(&modes, "modes", "", "Modes as a JSON array (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("modes")

	return cmd
}

func newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|maintenance|deprecated>",
		Short: "Change a game's catalog status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult
			req := map[string]string{"status": args[1]}
			if err := client.Put("/api/games/"+url.PathEscape(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
