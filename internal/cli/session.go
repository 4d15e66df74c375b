package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Game session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionStateCmd())
	cmd.AddCommand(newSessionEndCmd())
	cmd.AddCommand(newSessionListCmd())

	return cmd
}

func sessionPath(id string) string {
	return "/api/sessions/" + url.PathEscape(id)
}

// parsePlayers reads "id" or "id:name" entries
func parsePlayers(entries []string) []SessionPlayer {
	players := make([]SessionPlayer, len(entries))
	for i, e := range entries {
		id, name, _ := strings.Cut(e, ":")
		players[i] = SessionPlayer{ID: id, Name: name}
	}
	return players
}

type amount struct {
	playerID string
	value    float64
}

// parseAmounts reads "id=amount" entries
func parseAmounts(entries []string) ([]amount, error) {
	amounts := make([]amount, 0, len(entries))
	for _, e := range entries {
		id, raw, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("expected player=amount, got %q", e)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in %q: %w", e, err)
		}
		amounts = append(amounts, amount{playerID: id, value: value})
	}
	return amounts, nil
}

func newSessionCreateCmd() *cobra.Command {
	var gameID, lobbyID string
	var players []string
	var wager float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"gameId":  gameID,
				"lobbyId": lobbyID,
				"players": parsePlayers(players),
				"wager":   wager,
			}
			var result SessionResult
			if err := client.Post("/api/sessions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&lobbyID, "lobby", "", "Lobby the session was started from")
	cmd.Flags().StringSliceVar(&players, "player", nil, "Participant as id or id:name (repeatable, required)")
	cmd.Flags().Float64Var(&wager, "wager", 0, "Wager per player; defaults to the lobby's")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult
			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <id> <json>",
		Short: "Replace a session's state document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("state must be valid JSON")
			}

			req := map[string]json.RawMessage{"state": json.RawMessage(args[1])}
			var result SessionResult
			if err := client.Put(sessionPath(args[0])+"/state", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	var winner string
	var scores, rewards []string

	cmd := &cobra.Command{
		Use:   "end <id>",
		Short: "End a session and settle player stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedScores, err := parseAmounts(scores)
			if err != nil {
				return err
			}
			parsedRewards, err := parseAmounts(rewards)
			if err != nil {
				return err
			}

			results := Results{Winner: winner, Scores: []PlayerScore{}, Rewards: []PlayerReward{}}
			for _, a := range parsedScores {
				results.Scores = append(results.Scores, PlayerScore{PlayerID: a.playerID, Score: a.value})
			}
			for _, a := range parsedRewards {
				results.Rewards = append(results.Rewards, PlayerReward{PlayerID: a.playerID, Amount: a.value})
			}

			var result SessionResult
			req := map[string]any{"results": results}
			if err := client.Post(sessionPath(args[0])+"/end", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Winning player ID")
	cmd.Flags().StringSliceVar(&scores, "score", nil, "Score as player=points (repeatable)")
	cmd.Flags().StringSliceVar(&rewards, "reward", nil, "Reward as player=amount (repeatable)")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <playerId>",
		Short: "List a player's sessions, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/sessions/player/" + url.PathEscape(args[0])
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result SessionList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum sessions to list (server default 10)")

	return cmd
}
