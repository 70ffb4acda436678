package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIListProjects(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	var resp struct {
		Projects []struct {
			ID       int    `json:"id"`
			Name     string `json:"name"`
			Slug     string `json:"slug"`
			Category string `json:"category"`
		} `json:"projects"`
	}

	w := b.get("/api/projects")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Projects, 15)

	w = b.get("/api/projects?category=mobile-applications")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 9)
	for i, p := range resp.Projects {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, "Mobile Applications", p.Category)
	}
	assert.Equal(t, "mealprep-pro", resp.Projects[1].Slug)

	w = b.get("/api/projects?category=pottery")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIAdjacent(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.get("/api/projects/cardspace/adjacent")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"project": {"id": 1, "name": "CardSpace", "slug": "cardspace"},
		"prev": {"id": 15, "name": "TechNexus", "slug": "technexus"},
		"next": {"id": 2, "name": "MealPrep Pro", "slug": "mealprep-pro"}
	}`, w.Body.String())

	w = b.get("/api/projects/unknown/adjacent")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIHeroFrames(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.get("/api/hero-frames")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Frames []struct {
			Words  []string `json:"words"`
			Glitch bool     `json:"glitch"`
			HoldMs int64    `json:"holdMs"`
		} `json:"frames"`
		DurationMs int64 `json:"durationMs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Frames)

	var total int64
	var peaks [][]string
	for _, f := range resp.Frames {
		total += f.HoldMs
		if f.Glitch {
			peaks = append(peaks, f.Words)
		}
	}
	assert.Equal(t, resp.DurationMs, total)
	assert.Equal(t, HeroTitles, peaks)
}
