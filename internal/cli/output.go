package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case AuthResult:
		o.printMessage(v.Message)
		o.printPlayer(v.Player)
		fmt.Fprintf(o.w, "Token: %s\n", v.Token)
	case PlayerResult:
		o.printMessage(v.Message)
		o.printPlayer(v.Player)
	case StatsResult:
		fmt.Fprintf(o.w, "Player: %s (%s)\n", v.PlayerName, v.PlayerID)
		o.printStats(v.Stats)
	case TopPlayersResult:
		for i, p := range v.TopPlayers {
			fmt.Fprintf(o.w, "%2d. %s (%s) - %d won / %d played\n", i+1, p.Name, p.ID, p.Stats.GamesWon, p.Stats.GamesPlayed)
		}
	case GameList:
		for _, g := range v.Games {
			fmt.Fprintf(o.w, "%s  %s [%s] %d mode(s)\n", g.ID, g.Name, g.Status, len(g.Modes))
		}
	case GameResult:
		o.printMessage(v.Message)
		o.printGame(v.Game)
	case LobbyList:
		for _, l := range v.Lobbies {
			fmt.Fprintf(o.w, "%s  game=%s mode=%s [%s] %d/%d\n", l.ID, l.GameID, l.GameMode, l.Status, len(l.Players), l.MaxPlayers)
		}
	case LobbyResult:
		o.printMessage(v.Message)
		if v.Lobby != nil {
			o.printLobby(*v.Lobby)
		} else if v.LobbyID != "" {
			fmt.Fprintf(o.w, "Lobby: %s\n", v.LobbyID)
		}
		if v.SessionID != "" {
			fmt.Fprintf(o.w, "Session: %s\n", v.SessionID)
		}
	case SessionList:
		for _, s := range v.Sessions {
			status := "running"
			if s.EndedAt != nil {
				status = "ended"
			}
			fmt.Fprintf(o.w, "%s  game=%s players=%d [%s]\n", s.ID, s.GameID, len(s.Players), status)
		}
	case SessionResult:
		o.printMessage(v.Message)
		if v.Session != nil {
			o.printSession(*v.Session)
		} else if v.SessionID != "" {
			fmt.Fprintf(o.w, "Session: %s\n", v.SessionID)
		}
		if v.Results != nil {
			o.printResults(*v.Results)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printMessage(msg string) {
	if msg != "" {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	if p.Email != "" {
		fmt.Fprintf(o.w, "Email: %s\n", p.Email)
	}
	if p.WalletAddress != "" {
		fmt.Fprintf(o.w, "Wallet: %s\n", p.WalletAddress)
	}
	o.printStats(p.Stats)
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Games: %d played, %d won\n", s.GamesPlayed, s.GamesWon)
	fmt.Fprintf(o.w, "Wagered: %.2f  Won: %.2f\n", s.TotalWagered, s.TotalWon)
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	if g.Description != "" {
		fmt.Fprintf(o.w, "Description: %s\n", g.Description)
	}
	fmt.Fprintf(o.w, "Modes (%d):\n", len(g.Modes))
	for _, m := range g.Modes {
		fmt.Fprintf(o.w, "  - %s (%s) players=%d minWager=%.2f\n", m.Name, m.ID, m.Players, m.MinWager)
	}
}

func (o *Output) printLobby(l Lobby) {
	fmt.Fprintf(o.w, "Lobby: %s\n", l.ID)
	fmt.Fprintf(o.w, "Game: %s  Mode: %s\n", l.GameID, l.GameModeName)
	fmt.Fprintf(o.w, "Status: %s\n", l.Status)
	fmt.Fprintf(o.w, "Wager: %.2f\n", l.Wager)
	fmt.Fprintf(o.w, "Players (%d/%d):\n", len(l.Players), l.MaxPlayers)
	for _, m := range l.Players {
		var tags []string
		if m.ID == l.HostID {
			tags = append(tags, "host")
		}
		if m.IsReady {
			tags = append(tags, "ready")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintf(o.w, "  - %s (%s)%s\n", m.Name, m.ID, suffix)
	}
}

func (o *Output) printSession(s Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	fmt.Fprintf(o.w, "Game: %s\n", s.GameID)
	if s.LobbyID != "" {
		fmt.Fprintf(o.w, "Lobby: %s\n", s.LobbyID)
	}
	fmt.Fprintf(o.w, "Wager: %.2f\n", s.Wager)
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(o.w, "State: %s\n", string(s.State))
	if s.Results != nil {
		o.printResults(*s.Results)
	}
}

func (o *Output) printResults(r Results) {
	if r.Winner != "" {
		fmt.Fprintf(o.w, "Winner: %s\n", r.Winner)
	}
	for _, sc := range r.Scores {
		fmt.Fprintf(o.w, "  %s: %g\n", sc.PlayerID, sc.Score)
	}
	for _, rw := range r.Rewards {
		fmt.Fprintf(o.w, "  %s receives %.2f\n", rw.PlayerID, rw.Amount)
	}
}
