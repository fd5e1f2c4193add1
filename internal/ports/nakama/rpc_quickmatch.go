package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eriantys/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest selects the variant to play. An empty payload asks for a standard
// two player match.
type QuickMatchRequest struct {
	Players int  `json:"players"`
	Expert  bool `json:"expert"`
}

// QuickMatchResponse is the payload returned to clients when requesting a match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// MatchLister is the subset of runtime.NakamaModule quick match needs.
type MatchLister interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return quickMatch(ctx, logger, nk, payload)
}

// ParseQuickMatchRequest decodes and validates an RPC payload.
func ParseQuickMatchRequest(payload string) (QuickMatchRequest, error) {
	req := QuickMatchRequest{Players: 2}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return req, fmt.Errorf("invalid quick match payload: %w", err)
		}
	}
	if _, err := domain.NewVariant(req.Players); err != nil {
		return req, err
	}
	return req, nil
}

func quickMatch(ctx context.Context, logger runtime.Logger, nk MatchLister, payload string) (string, error) {
	req, err := ParseQuickMatchRequest(payload)
	if err != nil {
		logger.Warn("QuickMatch: %v", err)
		return "", runtime.NewError(err.Error(), 3) // INVALID_ARGUMENT
	}

	// Find any match of our game and variant that still waits for players.
	expert := "F"
	if req.Expert {
		expert = "T"
	}
	query := fmt.Sprintf("+label.game:%s +label.open:>=1 +label.players:%d +label.expert:%s", LabelGame, req.Players, expert)

	limit := 10
	authoritative := true
	minSize := 0
	maxSize := req.Players - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameEriantys, map[string]interface{}{
		"players": req.Players,
		"expert":  req.Expert,
	})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
