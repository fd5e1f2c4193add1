package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"eriantys/internal/app"
	"eriantys/internal/app/settlement"
	"eriantys/internal/bot"
	"eriantys/internal/config"
	"eriantys/internal/domain"
	"eriantys/internal/protocol"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label

	defaultGameConfigPath    = "data/game_config.json"
	defaultBotIdentitiesPath = "data/bot_identities.json"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID              string                      `json:"match_id"`
	Players              int                         `json:"players"`
	Expert               bool                        `json:"expert"`
	Seats                []string                    `json:"seats"`     // User ids in seat order, empty string means seat is empty
	Nicknames            map[string]string           `json:"nicknames"` // User id -> nickname used inside the match
	Pending              []string                    `json:"pending"`   // User ids still to choose wizard and tower, in join order
	Tick                 int64                       `json:"tick"`
	Presences            map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`
	Codec                *protocol.Codec             `json:"-"`
	Match                *domain.Match               `json:"-"`
	BotsEnabled          bool                        `json:"bots_enabled"`
	BotMinDelay          int                         `json:"bot_min_delay"`
	BotMaxDelay          int                         `json:"bot_max_delay"`
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                       `json:"bot_wait_until"`
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent       `json:"-"` // Active bot agents by user id
	Rand                 *rand.Rand                  `json:"-"`
	Settlement           *settlement.Service         `json:"-"`
	Ended                bool                        `json:"ended"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// userIDOf returns the user id seated under nickname.
func (ms *MatchState) userIDOf(nickname string) string {
	for userID, nick := range ms.Nicknames {
		if nick == nickname {
			return userID
		}
	}
	return ""
}

func (ms *MatchState) nicknameTaken(nickname string) bool {
	return ms.userIDOf(nickname) != ""
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created. params carry the variant chosen by quick match.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if err := bot.LoadIdentities(envString(env, "eriantys_bot_identities", defaultBotIdentitiesPath)); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	cfg, err := config.LoadGameConfig(envString(env, "eriantys_game_config", defaultGameConfigPath))
	if err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
		cfg = config.DefaultGameConfig()
	}
	characters, err := cfg.CharacterKinds()
	if err != nil {
		logger.Warn("MatchInit: Ignoring character list: %v", err)
		characters = nil
	}

	state, err := newMatchState(paramInt(params, "players", 2), paramBool(params, "expert"), cfg, characters, time.Now().UnixNano())
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}
	state.MatchID, _ = ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if nk != nil {
		state.Settlement = settlement.NewService(NewNakamaEconomyAdapter(nk), settlement.Rewards{Win: cfg.WinReward, Draw: cfg.DrawReward})
	}

	// Runtime env overrides the tuning file for bot behaviour.
	if val, ok := env["eriantys_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	state.BotMinDelay = envInt(env, "eriantys_bot_min_delay_sec", state.BotMinDelay)
	state.BotMaxDelay = envInt(env, "eriantys_bot_max_delay_sec", state.BotMaxDelay)
	state.BotAutoFillDelay = envInt(env, "eriantys_bot_auto_fill_delay_sec", state.BotAutoFillDelay)

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func newMatchState(players int, expert bool, cfg config.GameConfig, characters []domain.CharacterKind, seed int64) (*MatchState, error) {
	rng := rand.New(rand.NewSource(seed))
	svc := app.NewService(rand.New(rand.NewSource(rng.Int63())), characters...)
	m, err := svc.CreateMatch(players, expert)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return &MatchState{
		Players:          players,
		Expert:           expert,
		Seats:            make([]string, players),
		Nicknames:        make(map[string]string),
		Presences:        make(map[string]runtime.Presence),
		App:              svc,
		Codec:            protocol.NewCodec(),
		Match:            m,
		BotMinDelay:      cfg.BotMinDelaySeconds,
		BotMaxDelay:      cfg.BotMaxDelaySeconds,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Bots:             make(map[string]*bot.Agent),
		Rand:             rng,
	}, nil
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.Match.Stage != domain.StageWaitForPlayers {
		return state, false, "Match already started"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}
	if matchState.nicknameTaken(presence.GetUsername()) {
		return state, false, string(protocol.NicknameAlreadyPresent)
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if !mh.seat(matchState, dispatcher, logger, p.GetUserId(), p.GetUsername()) {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// seat places userID in the first free seat, confirms the join and prompts for an identity
// when the player is first in line.
func (mh *matchHandler) seat(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, nickname string) bool {
	for i, seatUserId := range state.Seats {
		if seatUserId != "" {
			continue
		}
		state.Seats[i] = userID
		state.Nicknames[userID] = nickname
		state.Pending = append(state.Pending, userID)
		logger.Info("MatchJoin: %s (%s) took seat %d", nickname, userID, i)

		if p, ok := state.Presences[userID]; ok {
			mh.send(state, dispatcher, logger, protocol.New(protocol.JoinSuccessful).
				Quoted("matchId", state.MatchID).
				Int("players", state.Players).
				Bare("expert", strconv.FormatBool(state.Expert)), []runtime.Presence{p})
		}
		if len(state.Pending) == 1 {
			mh.prompt(state, dispatcher, logger)
		}
		return true
	}
	return false
}

// MatchLeave is called when one or more players leave the match. A player who already
// holds an identity cannot be replaced, so the match is discarded.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		if matchState.Ended || matchState.Match.Over() {
			continue
		}

		if idx := indexOf(matchState.Pending, userID); idx >= 0 && matchState.Match.Stage == domain.StageWaitForPlayers {
			matchState.Pending = append(matchState.Pending[:idx], matchState.Pending[idx+1:]...)
			for i, seatUserId := range matchState.Seats {
				if seatUserId == userID {
					matchState.Seats[i] = ""
				}
			}
			delete(matchState.Nicknames, userID)
			logger.Debug("MatchLeave: User %s left the lobby, seat freed.", userID)
			if idx == 0 {
				mh.prompt(matchState, dispatcher, logger)
			}
			continue
		}

		if _, seated := matchState.Nicknames[userID]; seated {
			mh.abort(matchState, dispatcher, logger, app.ReasonLogout, userID)
		}
	}

	if matchState.Ended || shouldTerminateNoHumans(matchState.Seats) {
		logger.Info("MatchLeave: Terminating match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
		if matchState.Ended {
			break
		}
	}

	if !matchState.Ended && matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	if matchState.Ended {
		logger.Info("MatchLoop: Match finished at tick %d.", tick)
		return nil
	}
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	kind, ok := KindFor(msg.GetOpCode())
	if !ok {
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return
	}
	frame, err := state.Codec.Decode(string(msg.GetData()))
	if err == nil && frame.Command != kind {
		err = fmt.Errorf("%w: op code %d carries %s", protocol.ErrMalformed, msg.GetOpCode(), frame.Command)
	}
	if err != nil {
		logger.Warn("MatchLoop: Undecodable frame from %s: %v", userID, err)
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, userID)
		return
	}

	switch {
	case kind == protocol.Beat:
	case kind == protocol.Logout:
		mh.abort(state, dispatcher, logger, app.ReasonLogout, userID)
	case kind == protocol.Login || kind == protocol.JoinMatch:
		mh.sendTo(state, dispatcher, logger, userID, app.IllegalMoveMessage("use the quick_match rpc to join", kind))
	case kind == protocol.AddPlayer:
		mh.handleAddPlayer(ctx, state, dispatcher, logger, userID, frame)
	case kind.IsMove():
		mh.handleMove(ctx, state, dispatcher, logger, userID, frame)
	default:
		logger.Warn("MatchLoop: Unexpected %s from %s", kind, userID)
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, userID)
	}
}

func (mh *matchHandler) handleAddPlayer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, frame protocol.Message) {
	if len(state.Pending) == 0 || state.Pending[0] != userID {
		logger.Error("handleAddPlayer: addPlayer from %s out of order", userID)
		return
	}
	wizard, err := frame.String("wizard")
	if err != nil {
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, userID)
		return
	}
	tower, err := frame.String("tower")
	if err != nil {
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, userID)
		return
	}
	_ = mh.addPlayer(ctx, state, dispatcher, logger, userID, wizard, tower)
}

// addPlayer gives the first pending player an identity. Rejections re-prompt.
func (mh *matchHandler) addPlayer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, wizard, tower string) error {
	nickname := state.Nicknames[userID]
	events, err := state.App.AddPlayer(state.Match, nickname, wizard, tower)
	switch {
	case errors.Is(err, domain.ErrOutOfOrder):
		logger.Error("addPlayer: %s: %v", nickname, err)
		return err
	case err != nil && len(events) == 0:
		logger.Debug("addPlayer: %s rejected: %v", nickname, err)
		mh.sendTo(state, dispatcher, logger, userID, app.IllegalMoveMessage(err.Error(), protocol.AddPlayer))
		mh.prompt(state, dispatcher, logger)
		return err
	case err != nil:
		logger.Error("addPlayer: preparation failed: %v", err)
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, "")
		return err
	}

	state.Pending = state.Pending[1:]
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.prompt(state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
	return nil
}

func (mh *matchHandler) prompt(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if len(state.Pending) == 0 {
		return
	}
	ev := state.App.Prompt(state.Match, state.Nicknames[state.Pending[0]])
	mh.broadcastEvents(context.Background(), state, dispatcher, logger, []app.Event{ev})
}

func (mh *matchHandler) handleMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, frame protocol.Message) {
	nickname, ok := state.Nicknames[userID]
	if !ok {
		logger.Warn("handleMove: %s is not seated", userID)
		return
	}
	mv, err := app.ParseMove(frame, nickname)
	switch {
	case errors.Is(err, domain.ErrIllegalMove):
		mh.sendTo(state, dispatcher, logger, userID, app.IllegalMoveMessage(err.Error(), frame.Command))
		return
	case err != nil:
		logger.Warn("handleMove: Malformed %s from %s: %v", frame.Command, userID, err)
		mh.abort(state, dispatcher, logger, app.ReasonProtocol, userID)
		return
	}
	_ = mh.applyMove(ctx, state, dispatcher, logger, userID, mv, frame.Command)
}

func (mh *matchHandler) applyMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, mv domain.Move, command protocol.Kind) error {
	events, err := state.App.ApplyMove(state.Match, mv, string(command))
	if err != nil {
		if errors.Is(err, domain.ErrOutOfOrder) {
			logger.Error("applyMove: %s from %s: %v", command, userID, err)
			return err
		}
		logger.Debug("applyMove: %s from %s rejected: %v", command, userID, err)
		mh.sendTo(state, dispatcher, logger, userID, app.IllegalMoveMessage(err.Error(), command))
		return err
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	return nil
}

// abort discards the match, telling every remaining player who caused it.
func (mh *matchHandler) abort(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, reason, userID string) {
	nickname := state.Nicknames[userID]
	logger.Warn("abort: Match discarded (%s) by %q", reason, nickname)
	for _, ev := range state.App.Abort(reason, nickname) {
		frame, ok := app.Frame(ev)
		if !ok {
			continue
		}
		var recipients []runtime.Presence
		for id, p := range state.Presences {
			if id != userID {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) > 0 {
			mh.send(state, dispatcher, logger, frame, recipients)
		}
	}
	state.Ended = true
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots if there's only one human player after delay
	if state.Match.Stage == domain.StageWaitForPlayers {
		if state.GetHumanPlayerCount() == 1 && state.GetOpenSeatsCount() > 0 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				mh.fillWithBots(state, dispatcher, logger)
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Bots first in line pick their identity right away
	for len(state.Pending) > 0 {
		agent, isBot := state.Bots[state.Pending[0]]
		if !isBot {
			break
		}
		wizard, tower, err := agent.ChooseIdentity(app.AvailableWizards(state.Match), app.AvailableTowers(state.Match))
		if err != nil {
			logger.Error("processBots: %v", err)
			break
		}
		if err := mh.addPlayer(ctx, state, dispatcher, logger, agent.ID, string(wizard), string(tower)); err != nil || state.Ended {
			break
		}
	}

	// 3. Handle bot turns in-game
	current := state.Match.CurrentPlayer()
	if current == nil || state.Match.Over() || state.Match.Stage == domain.StageWaitForPlayers {
		state.BotWaitUntil = 0
		return
	}
	userID := state.userIDOf(current.Nickname)
	agent, isBot := state.Bots[userID]
	if !isBot {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + int64(mh.botDelay(state))
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", current.Nickname, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	mv, err := agent.Play(state.Match)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", current.Nickname, err)
		return
	}
	command := app.MoveMessage(mv).Command
	if err := mh.applyMove(ctx, state, dispatcher, logger, userID, mv, command); err != nil {
		logger.Error("processBots: Bot %s played an illegal move: %v", current.Nickname, err)
	}
}

func (mh *matchHandler) botDelay(state *MatchState) int {
	lo, hi := state.BotMinDelay, state.BotMaxDelay
	if hi < lo {
		hi = lo
	}
	return lo + state.Rand.Intn(hi-lo+1)
}

func (mh *matchHandler) fillWithBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		nickname := identity.Nickname
		if state.nicknameTaken(nickname) {
			nickname = fmt.Sprintf("%s-%d", nickname, i)
		}
		brain, err := bot.NewBrain(bot.ParseLevel(identity.Difficulty), state.Rand)
		if err != nil {
			logger.Error("processBots: Failed to create bot brain for %s: %v", identity.UserID, err)
			continue
		}
		state.Bots[identity.UserID] = &bot.Agent{ID: identity.UserID, Name: nickname, Strategy: brain}
		mh.seat(state, dispatcher, logger, identity.UserID, nickname)
		logger.Info("processBots: Added bot %s (%s) to seat %d", nickname, identity.UserID, i)
	}
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvents frames app events onto the wire and settles finished matches.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settle(ctx, state, logger, p)
			state.Ended = true
			continue
		}
		frame, ok := app.Frame(ev)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		// Determine recipients (default to broadcast)
		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, nickname := range ev.Recipients {
				if p, ok := state.Presences[state.userIDOf(nickname)]; ok {
					recipients = append(recipients, p)
				}
			}
			// Intended recipients that are not connected (bots) must not turn into a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}
		mh.send(state, dispatcher, logger, frame, recipients)
	}
}

func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger, result app.GameEndedPayload) {
	logger.Info("Match over: winner=%s draw=%t", result.Winner, result.Draw)
	if state.Settlement == nil {
		return
	}
	userIDs := make(map[string]string)
	for userID, nickname := range state.Nicknames {
		if !isBotUserId(userID) {
			userIDs[nickname] = userID
		}
	}
	if _, err := state.Settlement.Settle(ctx, state.MatchID, result, userIDs); err != nil {
		logger.Error("Failed to update balances: %v", err)
	}
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, frame protocol.Message) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	mh.send(state, dispatcher, logger, frame, []runtime.Presence{presence})
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, frame protocol.Message, recipients []runtime.Presence) {
	op, ok := OpCodeFor(frame.Command)
	if !ok {
		logger.Error("send: No op code for %s", frame.Command)
		return
	}
	if err := dispatcher.BroadcastMessage(op, []byte(state.Codec.Encode(frame)), recipients, nil, true); err != nil {
		logger.Error("send: %s: %v", frame.Command, err)
	}
}

func buildLabel(state *MatchState) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                  LabelGame,
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"players":               state.Players,
		"expert":                state.Expert,
		"stage":                 string(state.Match.Stage),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func envString(env map[string]string, key, fallback string) string {
	if val, ok := env[key]; ok && val != "" {
		return val
	}
	return fallback
}

func envInt(env map[string]string, key string, fallback int) int {
	if val, ok := env[key]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func paramInt(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func paramBool(params map[string]interface{}, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}
