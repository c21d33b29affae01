package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hanzitree/pkg/dictionary"
	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/notes"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/store"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Message{Message: HealthMessage})
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	opts := store.All
	var err error
	if opts.Offset, err = queryInt(r, "skip", 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Limit, err = queryInt(r, "limit", -1); err != nil {
		s.writeError(w, r, err)
		return
	}
	chars, err := s.repo.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chars)
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := hanzi.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := hanzi.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.repo.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.notes.Delete(r.Context(), c.Key()); err != nil {
		s.logger.Warn("delete notes failed", "id", id, "err", err)
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	known, err := store.KnownSet(r.Context(), s.repo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	word, err := s.dict.Suggest(func(ch string) bool { return known[ch] }, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var word hanzi.Word
	if err := decodeJSON(w, r, &word); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.repo.Create(r.Context(), word)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("added character", "id", c.ID, "character", c.Character)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "query parameter q is required"))
		return
	}
	limit, err := queryInt(r, "limit", dictionary.DefaultSearchLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	chars, err := s.repo.List(r.Context(), store.All)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ids := make(map[string]int64, len(chars))
	for _, c := range chars {
		ids[c.Character] = c.ID
	}

	hits := s.dict.Search(q, limit)
	results := make([]SearchResult, len(hits))
	for i, word := range hits {
		results[i] = SearchResult{Word: word}
		if id, ok := ids[word.Character]; ok {
			results[i].Known = true
			results[i].ID = &id
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	id, err := hanzi.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, ok, err := s.notes.Get(r.Context(), strconv.FormatInt(id, 10))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "Notes not found"))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handlePutNotes(w http.ResponseWriter, r *http.Request) {
	id, err := hanzi.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var e notes.Entry
	if err := decodeJSON(w, r, &e); err != nil {
		s.writeError(w, r, err)
		return
	}
	e.UpdatedAt = store.Now()
	if err := s.notes.Set(r.Context(), c.Key(), e); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteNotes(w http.ResponseWriter, r *http.Request) {
	id, err := hanzi.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.notes.Delete(r.Context(), strconv.FormatInt(id, 10)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	opts, err := s.treeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), s.repo, s.notes, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// treeOptions merges /tree query parameters over the server defaults.
func (s *Server) treeOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.render
	opts.Logger = s.logger
	opts.Formats = []string{pipeline.FormatSVG}

	if v := q.Get("format"); v != "" {
		opts.Formats = []string{strings.ToLower(v)}
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid width: %q", v)
		}
		opts.Width = width
	}
	for _, flag := range []struct {
		name string
		dst  *bool
	}{
		{"pinyin", &opts.ShowPinyin},
		{"interactive", &opts.Interactive},
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	} {
		if v := q.Get(flag.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", flag.name, v)
			}
			*flag.dst = b
		}
	}
	return opts, opts.Validate()
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
	}
	return n, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
