package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

type seatView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Human     bool   `json:"human"`
	Alive     bool   `json:"alive"`
	Alignment string `json:"alignment,omitempty"`
}

type youView struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Alignment game.Alignment   `json:"alignment"`
	Alive     bool             `json:"alive"`
	Mates     []game.Candidate `json:"mates,omitempty"`
	// NightActor is set when the human picks tonight's victim.
	NightActor bool `json:"night_actor,omitempty"`
}

type stateView struct {
	ID              string           `json:"id"`
	Phase           game.Phase       `json:"phase"`
	Turn            int              `json:"turn"`
	Over            bool             `json:"over"`
	Winner          string           `json:"winner,omitempty"`
	You             youView          `json:"you"`
	Seats           []seatView       `json:"seats"`
	NightCandidates []game.Candidate `json:"night_candidates,omitempty"`
	Records         []game.Record    `json:"records"`
}

// view is what the human may see: other seats' alignments stay hidden until
// the game is over.
func view(id string, e *game.Engine) stateView {
	s := e.Session()
	over := s.Phase() == game.Terminal
	human := s.Human()

	v := stateView{
		ID:      id,
		Phase:   s.Phase(),
		Turn:    s.Turn(),
		Over:    over,
		Records: e.Records(),
		You: youView{
			ID:        human.ID,
			Name:      human.Name,
			Alignment: human.Alignment,
			Alive:     human.Alive,
		},
	}
	if v.Records == nil {
		v.Records = []game.Record{}
	}
	if side, ok := s.Winner(); ok && over {
		v.Winner = side.String()
	}

	all := s.Participants()
	for _, p := range all {
		sv := seatView{ID: p.ID, Name: p.Name, Human: p.Human, Alive: p.Alive}
		if over || p.Human {
			sv.Alignment = p.Alignment.String()
		}
		v.Seats = append(v.Seats, sv)
	}
	for _, id := range human.Mates {
		if p, ok := s.Participant(id); ok {
			v.You.Mates = append(v.You.Mates, game.Candidate{ID: p.ID, Name: p.Name})
		}
	}
	if actor, ok := s.NightActor(); ok && actor.Human && s.Phase() == game.Night {
		v.You.NightActor = true
		v.NightCandidates = s.NightCandidates()
	}
	return v
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	engine, err := s.build(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e := s.store.Create(engine)
	s.log.Info().Str("session", e.ID).Msg("session created")

	var v stateView
	e.Do(func(engine *game.Engine) error {
		v = view(e.ID, engine)
		return nil
	})
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var v stateView
	e.Do(func(engine *game.Engine) error {
		v = view(e.ID, engine)
		return nil
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type messageReq struct {
	Text string `json:"text"`
}

type targetReq struct {
	TargetID int `json:"target_id"`
}

// submit buffers human input on a live game and answers 202. It does not
// wait for a phase that is being resolved.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, fn func(*game.Session)) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	if err := e.Submit(fn); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "empty_message")
		return
	}
	s.submit(w, r, func(sess *game.Session) { sess.SubmitMessage(text) })
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req targetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.submit(w, r, func(sess *game.Session) { sess.SubmitVote(req.TargetID) })
}

func (s *Server) handleNightTarget(w http.ResponseWriter, r *http.Request) {
	var req targetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.submit(w, r, func(sess *game.Session) { sess.SubmitNightTarget(req.TargetID) })
}

type discussRes struct {
	Messages []game.Message `json:"messages"`
	State    stateView      `json:"state"`
}

func (s *Server) handleDiscuss(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var res discussRes
	err := e.Do(func(engine *game.Engine) error {
		msgs, err := engine.Discuss(r.Context())
		if err != nil {
			return err
		}
		res = discussRes{Messages: msgs, State: view(e.ID, engine)}
		if res.Messages == nil {
			res.Messages = []game.Message{}
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type advanceRes struct {
	Record game.Record `json:"record"`
	State  stateView   `json:"state"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var res advanceRes
	err := e.Do(func(engine *game.Engine) error {
		rec, err := engine.Step(r.Context())
		if err != nil {
			return err
		}
		res = advanceRes{Record: rec, State: view(e.ID, engine)}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
