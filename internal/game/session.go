package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPlayers         = 10
	DefaultWolves          = 2
	DefaultStrategyTimeout = 20 * time.Second
	DefaultHistoryWindow   = 6
)

// Settings configures a new session.
type Settings struct {
	Players   int
	Wolves    int
	HumanName string
	// Names for the autonomous seats, in seat order. Missing names are
	// filled with AI_<n>.
	Names           []string
	Seed            uint64 // zero picks a random seed
	StrategyTimeout time.Duration
	HistoryWindow   int
}

func (cfg Settings) withDefaults() Settings {
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = DefaultStrategyTimeout
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if strings.TrimSpace(cfg.HumanName) == "" {
		cfg.HumanName = "Human"
	}
	return cfg
}

// Option customises a session at creation time.
type Option func(*Session)

// WithLogger routes fallback warnings and phase logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithStrategies binds autonomous seats through f once roles are dealt.
func WithStrategies(f StrategyFactory) Option {
	return func(s *Session) { s.factory = f }
}

// WithPersonas gives each autonomous seat flavour text for its alignment.
func WithPersonas(src PersonaSource) Option {
	return func(s *Session) { s.personas = src }
}

// WithRand shares a random source with the session instead of seeding one.
func WithRand(r *Rand) Option {
	return func(s *Session) { s.rng = r }
}

// Session is one game: a fixed arena of seats, the two alignment views over
// it, the human's input slots and the phase state. Phase calls on one
// session must be serialized by the caller; the Submit methods may be
// called from any goroutine.
type Session struct {
	seats     []*Participant // seats[i].ID == i+1
	villagers []int          // ids, ascending
	wolves    []int          // ids, ascending

	rng      *Rand
	log      zerolog.Logger
	factory  StrategyFactory
	personas PersonaSource
	timeout  time.Duration
	window   int

	phase     Phase
	turn      int
	discussed bool

	inbox        sync.Mutex
	pendingText  *string
	pendingVote  *int
	pendingNight *int
}

// ValidateCounts checks that wolves are at least one and strictly fewer
// than villagers.
func ValidateCounts(players, wolves int) error {
	if wolves < 1 {
		return fmt.Errorf("%w: need at least one wolf, got %d", ErrConfiguration, wolves)
	}
	if villagers := players - wolves; wolves >= villagers {
		return fmt.Errorf("%w: wolves (%d) must be fewer than villagers (%d)", ErrConfiguration, wolves, villagers)
	}
	return nil
}

// NewSession seats one human and Players-1 autonomous participants, deals
// the roles and binds strategies. It fails with ErrConfiguration before
// anything is built when the counts are invalid.
func NewSession(cfg Settings, opts ...Option) (*Session, error) {
	if err := ValidateCounts(cfg.Players, cfg.Wolves); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	s := &Session{
		log:     zerolog.Nop(),
		timeout: cfg.StrategyTimeout,
		window:  cfg.HistoryWindow,
		phase:   Night,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(cfg.Seed)
	}

	s.seats = make([]*Participant, cfg.Players)
	s.seats[0] = &Participant{ID: 1, Name: strings.TrimSpace(cfg.HumanName), Human: true, Alive: true}
	// Names must be unique: strategies resolve targets by name.
	taken := map[string]bool{strings.ToLower(s.seats[0].Name): true}
	for i := 1; i < cfg.Players; i++ {
		var name string
		if i-1 < len(cfg.Names) {
			name = strings.TrimSpace(cfg.Names[i-1])
		}
		for n := i; name == "" || taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("AI_%d", n)
		}
		taken[strings.ToLower(name)] = true
		s.seats[i] = &Participant{ID: i + 1, Name: name, Alive: true}
	}

	s.dealRoles(cfg.Wolves)
	s.bindStrategies()

	s.log.Debug().
		Int("players", cfg.Players).
		Int("wolves", cfg.Wolves).
		Msg("session created")
	return s, nil
}

func (s *Session) seat(id int) *Participant {
	if id < 1 || id > len(s.seats) {
		return nil
	}
	return s.seats[id-1]
}

func (s *Session) human() *Participant {
	return s.seats[0]
}

func (s *Session) aliveSeats() []*Participant {
	var out []*Participant
	for _, p := range s.seats {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) aliveIn(ids []int) []*Participant {
	var out []*Participant
	for _, id := range ids {
		if p := s.seat(id); p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// Phase returns the phase the next Step will resolve.
func (s *Session) Phase() Phase { return s.phase }

// Turn returns the number of nights started so far.
func (s *Session) Turn() int { return s.turn }

// Participants returns a copy of every seat in id order.
func (s *Session) Participants() []Participant {
	out := make([]Participant, len(s.seats))
	for i, p := range s.seats {
		out[i] = p.snapshot()
	}
	return out
}

// Participant returns a copy of one seat.
func (s *Session) Participant(id int) (Participant, bool) {
	p := s.seat(id)
	if p == nil {
		return Participant{}, false
	}
	return p.snapshot(), true
}

// Alive returns a copy of every living seat in id order.
func (s *Session) Alive() []Participant {
	alive := s.aliveSeats()
	out := make([]Participant, len(alive))
	for i, p := range alive {
		out[i] = p.snapshot()
	}
	return out
}

// Human returns a copy of the externally controlled seat.
func (s *Session) Human() Participant {
	return s.human().snapshot()
}

// NightActor returns the wolf that picks tonight's victim: the living wolf
// with the lowest id.
func (s *Session) NightActor() (Participant, bool) {
	wolves := s.aliveIn(s.wolves)
	if len(wolves) == 0 {
		return Participant{}, false
	}
	return wolves[0].snapshot(), true
}

// NightCandidates returns the seats the wolves may kill tonight.
func (s *Session) NightCandidates() []Candidate {
	return candidates(s.aliveIn(s.villagers))
}

// GameOver reports whether the game has ended: no wolf is alive, or the
// wolves are at least as many as the living villagers.
func (s *Session) GameOver() bool {
	wolves, villagers := len(s.aliveIn(s.wolves)), len(s.aliveIn(s.villagers))
	return wolves == 0 || wolves >= villagers
}

// Winner returns the winning side once the game is over.
func (s *Session) Winner() (Alignment, bool) {
	if !s.GameOver() {
		return Villager, false
	}
	if len(s.aliveIn(s.wolves)) == 0 {
		return Villager, true
	}
	return Wolf, true
}

// SubmitMessage buffers the human's next discussion line, replacing any
// line not yet consumed.
func (s *Session) SubmitMessage(text string) {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	s.pendingText = &text
}

// SubmitVote buffers the human's vote, replacing any vote not yet consumed.
// The target is validated when votes are tallied.
func (s *Session) SubmitVote(targetID int) {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	s.pendingVote = &targetID
}

// SubmitNightTarget buffers the human wolf's victim for the next night.
// It only matters when the human is the acting wolf.
func (s *Session) SubmitNightTarget(targetID int) {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	s.pendingNight = &targetID
}

func (s *Session) takeMessage() string {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	if s.pendingText == nil {
		return ""
	}
	text := *s.pendingText
	s.pendingText = nil
	return text
}

func (s *Session) takeVote() int {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	if s.pendingVote == nil {
		return NoTarget
	}
	id := *s.pendingVote
	s.pendingVote = nil
	return id
}

func (s *Session) takeNightTarget() int {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	if s.pendingNight == nil {
		return NoTarget
	}
	id := *s.pendingNight
	s.pendingNight = nil
	return id
}

// clearInbox drops anything the human submitted, used once the human is dead.
func (s *Session) clearInbox() {
	s.inbox.Lock()
	defer s.inbox.Unlock()
	s.pendingText, s.pendingVote, s.pendingNight = nil, nil, nil
}
