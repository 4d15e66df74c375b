package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyActionCmd("join", "Join a lobby"))
	cmd.AddCommand(newLobbyActionCmd("leave", "Leave a lobby"))
	cmd.AddCommand(newLobbyReadyCmd())
	cmd.AddCommand(newLobbyActionCmd("start", "Start the game as host"))

	return cmd
}

func lobbyPath(id string) string {
	return "/api/lobbies/" + url.PathEscape(id)
}

func newLobbyListCmd() *cobra.Command {
	var gameID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lobbies, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if gameID != "" {
				q.Set("gameId", gameID)
			}
			if status != "" {
				q.Set("status", status)
			}
			path := "/api/lobbies"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result LobbyList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Filter by game ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: waiting, full, in-progress")

	return cmd
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyResult
			if err := client.Get(lobbyPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyCreateCmd() *cobra.Command {
	var gameID, mode string
	var maxPlayers int
	var wager float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lobby hosted by the signed-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"gameId":     gameID,
				"gameMode":   mode,
				"maxPlayers": maxPlayers,
				"wager":      wager,
			}
			var result LobbyResult
			if err := client.Post("/api/lobbies", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&mode, "mode", "", "Game mode ID (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 2, "Maximum number of players")
	cmd.Flags().Float64Var(&wager, "wager", 0, "Wager per player")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

// newLobbyActionCmd builds a command that posts to a lobby action as the signed-in player
func newLobbyActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyResult
			if err := client.Post(lobbyPath(args[0])+"/"+action, map[string]any{}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyReadyCmd() *cobra.Command {
	var ready, notReady bool

	cmd := &cobra.Command{
		Use:   "ready <id>",
		Short: "Toggle, or set with --yes/--no, the ready flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			switch {
			case ready:
				req["isReady"] = true
			case notReady:
				req["isReady"] = false
			}

			var result LobbyResult
			if err := client.Post(lobbyPath(args[0])+"/ready", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ready, "yes", false, "Mark ready")
	cmd.Flags().BoolVar(&notReady, "no", false, "Mark not ready")
	cmd.MarkFlagsMutuallyExclusive("yes", "no")

	return cmd
}
