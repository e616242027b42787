package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/berachah-academy/ikigai-api/internal/config"
	"github.com/berachah-academy/ikigai-api/internal/domain"
	"github.com/berachah-academy/ikigai-api/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Assess    usecase.AssessService
	BankSize  int
	CredSlots int
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, assess usecase.AssessService, bankSize, credSlots int) *Server {
	return &Server{Cfg: cfg, Assess: assess, BankSize: bankSize, CredSlots: credSlots}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type ikigaiRequest struct {
	User struct {
		Username string `json:"username" validate:"required,max=100"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone" validate:"omitempty,max=32"`
	} `json:"user"`
	Responses  map[string]string `json:"responses" validate:"required,min=1"`
	TestID     string            `json:"testId" validate:"omitempty,max=100"`
	FinishTime string            `json:"finishTime" validate:"omitempty,max=64"`
}

type ikigaiResponse struct {
	Scores         domain.ElementScores `json:"ikigai_scores"`
	AlignmentScore float64              `json:"ikigai_alignment_score"`
	Feedback       domain.Feedback      `json:"feedback"`
}

// IkigaiHandler scores the submitted answers, generates feedback, and returns
// the assembled response.
func (s *Server) IkigaiHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Cap body size to prevent abuse
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req ikigaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		res, err := s.Assess.Assess(r.Context(), usecase.AssessRequest{
			User: domain.Identity{
				Username: req.User.Username,
				Email:    req.User.Email,
				Phone:    req.User.Phone,
			},
			Responses:  req.Responses,
			TestID:     req.TestID,
			FinishTime: req.FinishTime,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, ikigaiResponse{
			Scores:         res.Scores,
			AlignmentScore: res.AlignmentScore,
			Feedback:       res.Feedback,
		})
	}
}

// ReadyzHandler reports whether the service can serve assessments: the
// question bank is loaded and at least one credential slot is configured.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		checks := []check{
			{Name: "question_bank", OK: s.BankSize > 0, Details: fmt.Sprintf("%d questions", s.BankSize)},
			{Name: "credentials", OK: s.CredSlots > 0, Details: fmt.Sprintf("%d slots", s.CredSlots)},
		}
		status := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				status = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, status, map[string]any{"checks": checks})
	}
}
