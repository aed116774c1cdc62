package controllers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"uprate/backend/flow"
	"uprate/backend/models"
	"uprate/backend/store"
)

type publicBusiness struct {
	Name           string             `json:"name"`
	Slug           string             `json:"slug"`
	Type           []string           `json:"type"`
	ColorScheme    models.ColorScheme `json:"colorScheme"`
	GoogleLink     string             `json:"googleLink,omitempty"`
	ReviewPageLink string             `json:"reviewPageLink,omitempty"`
	Questions      []models.Question  `json:"questions"`
}

type ratingView struct {
	Business publicBusiness `json:"business"`
	State    flow.State     `json:"state"`
	StepName string         `json:"stepName"`
	Review   string         `json:"review,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
}

// publicView strips internal fields and offers "Other" after every
// question's own answers.
func publicView(b *models.Business) publicBusiness {
	qs := make([]models.Question, 0, len(b.Questions))
	for _, q := range b.Questions {
		answers := append([]string(nil), q.Answers...)
		hasOther := false
		for _, a := range answers {
			if a == flow.OtherAnswer {
				hasOther = true
				break
			}
		}
		if !hasOther {
			answers = append(answers, flow.OtherAnswer)
		}
		qs = append(qs, models.Question{Question: q.Question, Answers: answers})
	}
	return publicBusiness{
		Name:           b.Name,
		Slug:           b.Slug,
		Type:           b.Type,
		ColorScheme:    b.ColorScheme,
		GoogleLink:     b.GoogleLink,
		ReviewPageLink: b.ReviewPageLink,
		Questions:      qs,
	}
}

func view(b *models.Business, st flow.State) ratingView {
	return ratingView{Business: publicView(b), State: st, StepName: st.Step.String()}
}

// ratingFlow loads the business by slug and the caller's flow for it.
func ratingFlow(env *Env, c *gin.Context) (*flow.Controller, bool) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := env.Businesses.GetBySlug(ctx, c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return nil, false
	}
	if err != nil {
		respondErr(c, err, "")
		return nil, false
	}
	fc := env.Sessions.Flow(c.GetString("visitor_id"), b, func(cache flow.DraftCache) *flow.Controller {
		return flow.NewController(b, env.Reviews, cache, env.Cfg.GenerateTimeout)
	})
	return fc, true
}

// RatingPage is a page load: the flow resumes at the drafts step when drafts
// are cached for this visitor, at the questions step otherwise.
func RatingPage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		fc, ok := ratingFlow(env, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, view(fc.Business(), fc.Reload()))
	}
}

func RatingAnswer(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		fc, ok := ratingFlow(env, c)
		if !ok {
			return
		}
		st := fc.State()
		var err error
		if req.Value != "" {
			st, err = fc.Answer(req.Index, req.Value)
		}
		if err == nil && req.Custom != nil {
			st, err = fc.CustomAnswer(req.Index, *req.Custom)
		}
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, view(fc.Business(), st))
	}
}

// RatingGenerate optionally records a full answer set, then produces drafts.
// A generation failure still answers 200, with the flow back on the
// questions step and a notice.
func RatingGenerate(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RatingGenerateRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
				return
			}
		}
		fc, ok := ratingFlow(env, c)
		if !ok {
			return
		}
		for _, i := range sortedKeys(req.Answers) {
			if _, err := fc.Answer(i, req.Answers[i]); err != nil {
				respondErr(c, err, "")
				return
			}
		}
		for _, i := range sortedKeys(req.CustomAnswers) {
			if _, err := fc.CustomAnswer(i, req.CustomAnswers[i]); err != nil {
				respondErr(c, err, "")
				return
			}
		}
		st, err := fc.Generate(c.Request.Context())
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, view(fc.Business(), st))
	}
}

// responseClipboard hands the chosen draft back to the browser, which does
// the actual copy.
type responseClipboard struct{ text string }

func (r *responseClipboard) WriteText(_ context.Context, text string) error {
	r.text = text
	return nil
}

func RatingSelect(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		fc, ok := ratingFlow(env, c)
		if !ok {
			return
		}
		clip := &responseClipboard{}
		st, err := fc.Select(c.Request.Context(), req.Index, clip)
		if err != nil {
			respondErr(c, err, "")
			return
		}
		b := fc.Business()
		v := view(b, st)
		v.Review = clip.text
		v.Redirect = b.GoogleLink
		if v.Redirect == "" {
			v.Redirect = b.ReviewPageLink
		}
		c.JSON(http.StatusOK, v)
	}
}

type backRequest struct {
	To string `json:"to" binding:"required,oneof=drafts questions"`
}

func RatingBack(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req backRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		fc, ok := ratingFlow(env, c)
		if !ok {
			return
		}
		var st flow.State
		var err error
		if req.To == "drafts" {
			st, err = fc.BackToDrafts()
		} else {
			st, err = fc.BackToQuestions()
		}
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, view(fc.Business(), st))
	}
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
