// Spydle rooms
//
// Two teams race to find their agents on a 5x5 grid of words while avoiding
// the assassin. Each room is a shared document; every websocket connection
// joins it as an independent replication client, computes its own
// transitions against the latest room it has seen, and waits for the
// document to echo the result back.
//
// Features:
// - Rooms per 4-digit code: /spydle/:code, /spydle/:code/ws and /spydle/:code/qr
// - GET or POST /spydle deals a board and redirects to the new room
// - Roles chosen per connection: red_spymaster, blue_spymaster or operative
// - Spymasters see the key card; operatives only see revealed cards
// - Only the current team's spymaster may give a clue or ask for a suggestion
// - Only the host (the player who created the room) may restart it
// - Per-room turn timer run by a referee client, ending turns that run long
// - Rooms auto-reaped after the configured idle timeout
// - Players identified by cookie
// - QR code for sharing the room, backed by go-qrcode

package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/spydle/internal/advisor"
	"github.com/Seednode/spydle/internal/game"
	"github.com/Seednode/spydle/internal/replication"
	"github.com/Seednode/spydle/internal/turntimer"
	"github.com/Seednode/spydle/internal/wordpack"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	actionTimeout   = 5 * time.Second
	maxCodeAttempts = 20
)

var errNoFreeCode = errors.New("no free room code found")

// Role is the seat a connection plays from.
type Role string

const (
	RedSpymaster  Role = "red_spymaster"
	BlueSpymaster Role = "blue_spymaster"
	Operative     Role = "operative"
)

func parseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RedSpymaster, BlueSpymaster, Operative:
		return r, true
	case "":
		return Operative, true
	default:
		return "", false
	}
}

func (r Role) spymasterOf(t game.Team) bool {
	switch t {
	case game.Red:
		return r == RedSpymaster
	case game.Blue:
		return r == BlueSpymaster
	default:
		return false
	}
}

// Messages coming from clients
type ClientMessage struct {
	Type   string      `json:"type"`             // "give_clue", "reveal", "end_turn", "ai_clue", "restart"
	Word   string      `json:"word,omitempty"`   // give_clue
	Number json.Number `json:"number,omitempty"` // give_clue
	Card   *int        `json:"card,omitempty"`   // reveal
	Pack   string      `json:"pack,omitempty"`   // restart
	Words  string      `json:"words,omitempty"`  // restart with the custom pack
}

// CardView is a card as one role may see it. Type is empty for unrevealed
// cards shown to operatives.
type CardView struct {
	ID       int           `json:"id"`
	Word     string        `json:"word"`
	Type     game.CardType `json:"type,omitempty"`
	Revealed bool          `json:"revealed"`
}

// RoomStateMessage is the full room as one connection may see it.
type RoomStateMessage struct {
	Type          string           `json:"type"` // "room_state"
	Code          string           `json:"code"`
	Role          Role             `json:"role"`
	Host          bool             `json:"host"`
	Meta          replication.Meta `json:"meta"`
	Phase         game.Phase       `json:"phase"`
	Cards         []CardView       `json:"cards"`
	FirstTeam     game.Team        `json:"firstTeam"`
	CurrentTeam   game.Team        `json:"currentTeam"`
	RedRemaining  int              `json:"redRemaining"`
	BlueRemaining int              `json:"blueRemaining"`
	GameOver      bool             `json:"gameOver"`
	Winner        game.Team        `json:"winner,omitempty"`
	Clue          *game.Clue       `json:"clue"`
	GuessesLeft   int              `json:"guessesLeft"`
	ClueHistory   []game.Clue      `json:"clueHistory"`
	Log           []game.LogEntry  `json:"log"`
}

// RevealResultMessage tells everyone in the room how a reveal turned out.
type RevealResultMessage struct {
	Type string `json:"type"` // "reveal_result"
	Card int    `json:"card"`
	Word string `json:"word"`
	game.Reveal
}

// TimerMessage reports the turn countdown.
type TimerMessage struct {
	Type     string    `json:"type"` // "timer"
	Running  bool      `json:"running"`
	Deadline time.Time `json:"deadline,omitzero"`
	Seconds  int       `json:"seconds"`
}

// SimpleMessage is for generic notifications ("error", "room_closed").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newRoomState(room *replication.Snapshot, role Role, playerID string) RoomStateMessage {
	s := room.State
	rec := s.Record

	cards := make([]CardView, len(rec.Cards))
	for i, c := range rec.Cards {
		cards[i] = CardView{ID: c.ID, Word: c.Word, Revealed: c.Revealed}
		if c.Revealed || role != Operative {
			cards[i].Type = c.Type
		}
	}

	history := rec.ClueHistory
	if history == nil {
		history = []game.Clue{}
	}
	log := rec.Log
	if log == nil {
		log = []game.LogEntry{}
	}

	return RoomStateMessage{
		Type:          "room_state",
		Code:          room.Code,
		Role:          role,
		Host:          playerID != "" && playerID == room.Meta.HostID,
		Meta:          room.Meta,
		Phase:         s.Phase(),
		Cards:         cards,
		FirstTeam:     rec.FirstTeam,
		CurrentTeam:   rec.CurrentTeam,
		RedRemaining:  rec.RedRemaining,
		BlueRemaining: rec.BlueRemaining,
		GameOver:      rec.GameOver,
		Winner:        rec.Winner,
		Clue:          s.Turn.Clue,
		GuessesLeft:   s.Turn.GuessesLeft,
		ClueHistory:   history,
		Log:           log,
	}
}

// rejection is an action refused by the rules. It is reported to the
// player but not logged as a server error.
type rejection string

func (r rejection) Error() string {
	return string(r)
}

const (
	errNotSpymaster   rejection = "only the current team's spymaster may do that"
	errOperativesOnly rejection = "only operatives may reveal cards"
	errHostOnly       rejection = "only the host may restart the game"
	errBadClue        rejection = "a clue needs a word and a whole number, and no clue may be active"
	errBadReveal      rejection = "that card cannot be revealed now"
	errGameOver       rejection = "the game is over"
	errStaleClue      rejection = "the turn changed before the suggestion arrived"
)

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
	role     Role
	hub      *Hub
	room     *replication.Client

	mu     sync.Mutex
	closed bool
}

// deliver queues msg for the write pump. A client that cannot keep up is
// dropped, as is one already closed.
func (c *Client) deliver(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.closed = true
		close(c.send)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// receive is the replication callback for this connection.
func (c *Client) receive(room *replication.Snapshot) {
	if room == nil {
		c.deliver(SimpleMessage{
			Type:    "room_closed",
			Message: "This room has been closed.",
		})
		return
	}
	c.deliver(newRoomState(room, c.role, c.playerID))
}

type Hub struct {
	code    string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	updates  chan *replication.Snapshot
	results  chan RevealResultMessage
	done     chan struct{}
	once     sync.Once

	// referee follows the room on behalf of the server and ends turns when
	// the timer runs out.
	referee *replication.Client

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time
	timer      *turntimer.Timer
	// timedClues is the clue count the timer was armed for, 0 outside a
	// guessing phase. A clue arms the timer once.
	timedClues int
}

func newHub(ctx context.Context, code string, adapter *replication.Adapter) (*Hub, error) {
	now := time.Now()
	h := &Hub{
		code:       code,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		updates:    make(chan *replication.Snapshot, 16),
		results:    make(chan RevealResultMessage, 16),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		timer:      turntimer.New(0),
	}

	referee, err := adapter.Join(ctx, code, func(room *replication.Snapshot) {
		select {
		case h.updates <- room:
		case <-h.done:
		}
	})
	if err != nil {
		return nil, err
	}
	h.referee = referee

	return h, nil
}

func (h *Hub) run(cfg *Config) {
	for {
		// Only run replaces the timer, so reading it here needs no lock.
		expired := h.timer.C()

		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			msg := h.timerMessageLocked()
			h.mu.Unlock()

			c.deliver(msg)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()

		case room := <-h.updates:
			h.track(cfg, room)

		case e := <-expired:
			h.expire(cfg, e)

		case res := <-h.results:
			h.mu.Lock()
			h.broadcastLocked(res)
			h.mu.Unlock()
		}
	}
}

// track follows the room as the referee sees it, arming the turn timer when
// a clue opens a guessing phase and stopping it when the phase ends.
func (h *Hub) track(cfg *Config, room *replication.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if room == nil {
		h.timer.Stop()
		h.broadcastLocked(h.timerMessageLocked())
		return
	}

	d := time.Duration(room.Meta.TimerSeconds) * time.Second
	if !room.Meta.TimerEnabled {
		d = 0
	}
	if d != h.timer.Duration() {
		h.timer.Stop()
		h.timer = turntimer.New(d)
	}

	state := room.State
	clues := len(state.Record.ClueHistory)
	_, running := h.timer.Deadline()

	switch {
	case state.Phase() != game.Guessing:
		h.timedClues = 0
		if running {
			h.timer.Stop()
			h.broadcastLocked(h.timerMessageLocked())
		}

	case clues != h.timedClues:
		h.timedClues = clues
		if !h.timer.Enabled() {
			return
		}
		h.timer.Start()
		h.broadcastLocked(h.timerMessageLocked())

		logf(cfg, "ROOMS: Turn timer started in %s (%s)", h.code, h.timer.Duration())
	}
}

// expire ends the turn for the clue the timer was armed for, judged against
// the referee's latest view of the room.
func (h *Hub) expire(cfg *Config, e turntimer.Expiry) {
	h.mu.RLock()
	current := h.timer.Current(e)
	timedClues := h.timedClues
	h.mu.RUnlock()

	if !current {
		return
	}

	state, ok := h.referee.State()
	if !ok || state.Phase() != game.Guessing || len(state.Record.ClueHistory) != timedClues {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	ended, err := h.referee.EndTurn(ctx)
	if err != nil {
		logf(cfg, "ERROR: Turn timer in %s: %v", h.code, err)
		return
	}
	if ended {
		logf(cfg, "ROOMS: Turn timer ran out for %s in %s", state.Record.CurrentTeam, h.code)
	}

	h.mu.Lock()
	h.broadcastLocked(h.timerMessageLocked())
	h.mu.Unlock()
}

func (h *Hub) timerMessageLocked() TimerMessage {
	deadline, running := h.timer.Deadline()
	return TimerMessage{
		Type:     "timer",
		Running:  running,
		Deadline: deadline,
		Seconds:  int(h.timer.Duration() / time.Second),
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		if !client.deliver(msg) {
			delete(h.clients, client)
		}
	}
}

// publish hands a reveal result to the run loop for broadcast.
func (h *Hub) publish(res RevealResultMessage) {
	select {
	case h.results <- res:
	case <-h.done:
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive
}

// close stops the hub and disconnects all of its clients (used by reaper).
func (h *Hub) close() {
	h.once.Do(func() {
		close(h.done)
		h.referee.Close()

		h.mu.Lock()
		defer h.mu.Unlock()

		h.timer.Stop()
		for c := range h.clients {
			c.close()
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "spydle_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// RoomManager holds a hub for every live room, so each $path/$code is its
// own isolated session.
type RoomManager struct {
	cfg     *Config
	adapter *replication.Adapter
	packs   *wordpack.Registry
	advisor *advisor.Advisor

	mu          sync.Mutex
	hubs        map[string]*Hub
	rng         *rand.Rand
	idleTimeout time.Duration
}

func newRoomManager(ctx context.Context, cfg *Config, adapter *replication.Adapter, packs *wordpack.Registry, adv *advisor.Advisor, rng *rand.Rand) *RoomManager {
	rm := &RoomManager{
		cfg:         cfg,
		adapter:     adapter,
		packs:       packs,
		advisor:     adv,
		hubs:        make(map[string]*Hub),
		rng:         rng,
		idleTimeout: cfg.sessionTimeout,
	}
	if rm.idleTimeout > 0 {
		go rm.reaperLoop(ctx)
	}
	return rm
}

// restore starts hubs for rooms already in the store, so their timers run
// and the reaper sees them.
func (rm *RoomManager) restore(ctx context.Context) error {
	codes, err := rm.adapter.Codes(ctx)
	if err != nil {
		return err
	}
	restored := 0
	for _, code := range codes {
		_, err := rm.getHub(ctx, code)
		switch {
		case errors.Is(err, replication.ErrRoomNotFound):
			// A write that lands after DeleteRoom leaves a fragment with no meta.
			if err := rm.adapter.DeleteRoom(ctx, code); err != nil {
				return err
			}
			logf(rm.cfg, "ROOMS: Removed incomplete room %s", code)
		case err != nil:
			return err
		default:
			restored++
		}
	}
	if restored > 0 {
		logf(rm.cfg, "ROOMS: Restored %d room(s)", restored)
	}
	return nil
}

func (rm *RoomManager) getHub(ctx context.Context, code string) (*Hub, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if hub, ok := rm.hubs[code]; ok {
		return hub, nil
	}

	exists, err := rm.adapter.RoomExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, replication.ErrRoomNotFound
	}

	hub, err := newHub(ctx, code, rm.adapter)
	if err != nil {
		return nil, err
	}
	rm.hubs[code] = hub
	go hub.run(rm.cfg)
	return hub, nil
}

// deal generates a board from packID. The custom pack is parsed from text,
// or taken from saved when text is blank; its words are returned so the
// room can keep them.
func (rm *RoomManager) deal(packID, text string, saved []string) (game.Record, []string, error) {
	if packID == wordpack.CustomID {
		words := saved
		if strings.TrimSpace(text) != "" || len(saved) == 0 {
			pack, err := wordpack.ParseCustom(text)
			if err != nil {
				return game.Record{}, nil, err
			}
			words = pack.Words
		}

		rm.mu.Lock()
		defer rm.mu.Unlock()
		rec, err := game.GenerateBoard(words, rm.rng)
		return rec, words, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	rec, err := rm.packs.Generate(packID, rm.rng)
	return rec, nil, err
}

func (rm *RoomManager) newCode() string {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	return replication.NewCode(rm.rng)
}

// createRoom deals a board into a free code. The free check and the write
// are separate steps, so two servers sharing a store can still collide.
func (rm *RoomManager) createRoom(ctx context.Context, hostID, packID, words string, turn time.Duration) (string, error) {
	rec, custom, err := rm.deal(packID, words, nil)
	if err != nil {
		return "", err
	}

	meta := replication.Meta{
		WordPack:     packID,
		TimerEnabled: turn > 0,
		TimerSeconds: int(turn / time.Second),
		HostID:       hostID,
		CreatedAt:    time.Now().UnixMilli(),
		Words:        custom,
	}

	for range maxCodeAttempts {
		code := rm.newCode()

		exists, err := rm.adapter.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		if err := rm.adapter.CreateRoom(ctx, code, rec, meta); err != nil {
			return "", err
		}
		if _, err := rm.getHub(ctx, code); err != nil {
			return "", err
		}
		return code, nil
	}

	return "", errNoFreeCode
}

// retire removes a room from the store and closes its hub.
func (rm *RoomManager) retire(hub *Hub) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	if err := rm.adapter.DeleteRoom(ctx, hub.code); err != nil {
		logf(rm.cfg, "ERROR: Removing room %s: %v", hub.code, err)
	}
	hub.close()

	logf(rm.cfg, "ROOMS: Removed idle room %s after %s", hub.code, time.Since(hub.createdAt).Round(time.Second))
}

// reaperLoop periodically removes rooms that have been idle longer than idleTimeout.
func (rm *RoomManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(rm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-rm.idleTimeout)

		rm.mu.Lock()
		for code, hub := range rm.hubs {
			if hub.idleSince().Before(cutoff) {
				delete(rm.hubs, code)
				go rm.retire(hub)
			}
		}
		rm.mu.Unlock()
	}
}

// closeAll stops every hub without touching the store.
func (rm *RoomManager) closeAll() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for code, hub := range rm.hubs {
		delete(rm.hubs, code)
		hub.close()
	}
}

// WebSocket handler that picks the hub based on :code
func serveRoomSocket(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		if !replication.ValidCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		role, ok := parseRole(r.URL.Query().Get("role"))
		if !ok {
			http.Error(w, "unknown role", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub, err := rm.getHub(r.Context(), code)
		switch {
		case errors.Is(err, replication.ErrRoomNotFound):
			http.Error(w, "room not found", http.StatusNotFound)
			return
		case err != nil:
			logf(cfg, "ERROR: Opening room %s: %v", code, err)
			http.Error(w, "unable to open room", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, http.Header{"Set-Cookie": w.Header().Values("Set-Cookie")})
		if err != nil {
			logf(cfg, "ERROR: Upgrade in room %s: %v", code, err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			playerID: playerID,
			role:     role,
			hub:      hub,
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		client.room, err = rm.adapter.Join(ctx, code, client.receive)
		cancel()
		if err != nil {
			client.deliver(SimpleMessage{Type: "error", Message: err.Error()})
			client.close()
			client.writePump()
			return
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			client.room.Close()
			_ = conn.Close()
			return
		}

		logf(cfg, "ROOMS: %s joined %s as %s", realIP(r), code, role)

		go client.writePump()
		client.readPump(cfg, rm)
	}
}

func (c *Client) readPump(cfg *Config, rm *RoomManager) {
	defer func() {
		c.room.Close()
		select {
		case c.hub.unreg <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		c.hub.touch()

		switch msg.Type {
		case "give_clue", "reveal", "end_turn", "restart":
			c.act(cfg, rm, msg)
		case "ai_clue":
			// The advisor takes a moment; keep reading meanwhile.
			go c.act(cfg, rm, msg)
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// act runs one player action and reports any failure to that player only.
func (c *Client) act(cfg *Config, rm *RoomManager, msg ClientMessage) {
	timeout := actionTimeout
	if msg.Type == "ai_clue" {
		timeout += rm.advisor.MaxDelay
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	switch msg.Type {
	case "give_clue":
		err = c.giveClue(ctx, msg)
	case "reveal":
		err = c.reveal(ctx, msg)
	case "end_turn":
		err = c.endTurn(ctx)
	case "ai_clue":
		err = c.suggestClue(ctx, rm)
	case "restart":
		err = c.restart(ctx, rm, msg)
	}
	if err == nil {
		return
	}

	var r rejection
	if !errors.As(err, &r) {
		logf(cfg, "ERROR: %s in room %s: %v", msg.Type, c.hub.code, err)
	}
	c.deliver(SimpleMessage{Type: "error", Message: err.Error()})
}

func (c *Client) giveClue(ctx context.Context, msg ClientMessage) error {
	state, ok := c.room.State()
	if !ok {
		return replication.ErrNotSynced
	}
	if !c.role.spymasterOf(state.Record.CurrentTeam) {
		return errNotSpymaster
	}

	n, ok := game.ParseClueNumber(msg.Number.String())
	if !ok {
		return errBadClue
	}
	ok, err := c.room.GiveClue(ctx, msg.Word, n)
	if err != nil {
		return err
	}
	if !ok {
		return errBadClue
	}
	return nil
}

func (c *Client) reveal(ctx context.Context, msg ClientMessage) error {
	if c.role != Operative {
		return errOperativesOnly
	}
	if msg.Card == nil {
		return errBadReveal
	}

	state, ok := c.room.State()
	if !ok {
		return replication.ErrNotSynced
	}

	result, err := c.room.RevealCard(ctx, *msg.Card)
	if err != nil {
		return err
	}
	if result == nil {
		return errBadReveal
	}

	res := RevealResultMessage{
		Type:   "reveal_result",
		Card:   *msg.Card,
		Reveal: *result,
	}
	for _, card := range state.Record.Cards {
		if card.ID == *msg.Card {
			res.Word = card.Word
		}
	}
	c.hub.publish(res)
	return nil
}

func (c *Client) endTurn(ctx context.Context) error {
	ok, err := c.room.EndTurn(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errGameOver
	}
	return nil
}

// suggestClue asks the advisor for a clue and applies it if the turn has
// not moved on in the meantime. An exhausted advisor is noted in the log.
func (c *Client) suggestClue(ctx context.Context, rm *RoomManager) error {
	state, ok := c.room.State()
	if !ok {
		return replication.ErrNotSynced
	}
	if !c.role.spymasterOf(state.Record.CurrentTeam) {
		return errNotSpymaster
	}
	if state.Phase() != game.AwaitingClue {
		return errBadClue
	}

	s, err := rm.advisor.Suggest(ctx, state.Record)
	switch {
	case errors.Is(err, advisor.ErrNoClue), errors.Is(err, advisor.ErrGameOver):
		return c.room.LogError(ctx, "AI: "+err.Error())
	case err != nil:
		return err
	}

	ok, err = c.room.ApplyClue(ctx, s.Clue, s.Matched)
	if err != nil {
		return err
	}
	if !ok {
		return errStaleClue
	}
	return nil
}

func (c *Client) restart(ctx context.Context, rm *RoomManager, msg ClientMessage) error {
	room := c.room.Room()
	if room == nil {
		return replication.ErrNotSynced
	}
	if room.Meta.HostID != c.playerID {
		return errHostOnly
	}

	pack := msg.Pack
	if pack == "" {
		pack = room.Meta.WordPack
	}
	rec, custom, err := rm.deal(pack, msg.Words, room.Meta.Words)
	if err != nil {
		if errors.Is(err, wordpack.ErrTooFewWords) || errors.Is(err, wordpack.ErrUnknownPack) {
			return rejection(err.Error())
		}
		return err
	}

	meta := room.Meta
	meta.WordPack = pack
	meta.CreatedAt = time.Now().UnixMilli()
	meta.Words = custom
	return c.room.Restart(ctx, rec, meta)
}

// QR handler: generates a PNG QR code for the room URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		if !replication.ValidCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:code/qr; strip trailing "/qr" to get the room URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// serveRoomView returns the room as an operative sees it.
func serveRoomView(cfg *Config, rm *RoomManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		code := ps.ByName("code")
		if !replication.ValidCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		room, err := rm.adapter.Room(r.Context(), code)
		switch {
		case errors.Is(err, replication.ErrRoomNotFound):
			http.Error(w, "room not found", http.StatusNotFound)
			return
		case err != nil:
			errs <- err
			http.Error(w, "unable to read room", http.StatusInternalServerError)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		written, err := writeJSON(cfg, w, http.StatusOK, newRoomState(room, Operative, playerID))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Room %s (%s) to %s in %s",
			code,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// redirectNewRoom handles GET and POST /path by dealing a new board into a
// fresh room code and redirecting to /path/:code. The form may carry pack,
// words (for the custom pack) and timer (seconds, 0 to disable).
func redirectNewRoom(cfg *Config, path string, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		pack := r.Form.Get("pack")
		if pack == "" {
			pack = cfg.wordPack
		}

		turn := cfg.turnTimer
		if s := r.Form.Get("timer"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil || secs < 0 {
				http.Error(w, "invalid timer", http.StatusBadRequest)
				return
			}
			turn = time.Duration(secs) * time.Second
		}

		hostID := getOrSetPlayerID(w, r)

		code, err := rm.createRoom(r.Context(), hostID, pack, r.Form.Get("words"), turn)
		switch {
		case errors.Is(err, wordpack.ErrUnknownPack), errors.Is(err, wordpack.ErrTooFewWords):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			logf(cfg, "ERROR: Creating room: %v", err)
			http.Error(w, "unable to create room", http.StatusInternalServerError)
			return
		}

		logf(cfg, "ROOMS: Created room %s%s/%s with pack %s", cfg.prefix, path, code, pack)
		http.Redirect(w, r, cfg.prefix+path+"/"+code, http.StatusSeeOther)
	}
}

// registerSpydle sets up routes so that:
//   - $path                  → deals a new room and redirects to it
//   - $path/:code            → JSON view of the room for operatives
//   - $path/:code/ws         → WebSocket for that room
//   - $path/:code/qr         → PNG QR code for that room URL
func registerSpydle(cfg *Config, path string, mux *httprouter.Router, rm *RoomManager, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path, rm))
	mux.POST(cfg.prefix+path, redirectNewRoom(cfg, path, rm))

	mux.GET(cfg.prefix+path+"/:code", serveRoomView(cfg, rm, errs))

	mux.GET(cfg.prefix+path+"/:code/ws", serveRoomSocket(cfg, rm))

	mux.GET(cfg.prefix+path+"/:code/qr", qrHandler(cfg))
}
