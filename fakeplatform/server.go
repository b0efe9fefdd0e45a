// Package fakeplatform is an in-memory stand-in for the hosted items platform.
// It speaks the same HTTP contract as gateway.HTTPGateway.
package fakeplatform

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/models"
)

// Call records one request the server handled.
type Call struct {
	Method     string
	Path       string
	ActingUser string
	Body       json.RawMessage
}

// FailFunc decides whether the n-th (1-based) call of a kind fails.
type FailFunc func(n int) bool

// Server holds items and their image associations in memory.
type Server struct {
	mu     sync.Mutex
	router *mux.Router
	token  string

	items  map[uint64]*models.Item
	images map[uint64]*models.ItemImage
	nextID uint64
	calls  []Call

	imageUpdates int
	imageCreates int
	failUpdate   FailFunc
	failCreate   FailFunc
}

// New creates an empty platform. When token is set every request must carry it.
func New(token string) *Server {
	s := &Server{
		router: mux.NewRouter(),
		token:  token,
		items:  make(map[uint64]*models.Item),
		images: make(map[uint64]*models.ItemImage),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.authenticate)
	s.router.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	s.router.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	s.router.HandleFunc("/items/slug/{slug}", s.handleGetBySlug).Methods(http.MethodGet)
	s.router.HandleFunc("/items/{id:[0-9]+}", s.handleUpdateItem).Methods(http.MethodPatch)
	s.router.HandleFunc("/items/{id:[0-9]+}/images", s.handleCreateImage).Methods(http.MethodPost)
	s.router.HandleFunc("/item-images/{id:[0-9]+}", s.handleUpdateImage).Methods(http.MethodPatch)
	s.router.HandleFunc("/item-images/{id:[0-9]+}", s.handleDeleteImage).Methods(http.MethodDelete)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if r.Method != http.MethodGet && r.Header.Get(gateway.ActingUserHeader) == "" {
			respondError(w, http.StatusUnauthorized, "acting user required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailImageUpdates installs a failure policy for updateItemImage
func (s *Server) FailImageUpdates(fn FailFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdate = fn
}

// FailImageCreates installs a failure policy for createItemImage
func (s *Server) FailImageCreates(fn FailFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = fn
}

// Calls returns the write calls handled so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls forgets recorded calls and call counters
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.imageUpdates = 0
	s.imageCreates = 0
}

// Seed stores an item with its images and returns the stored copy.
func (s *Server) Seed(item models.Item) models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == 0 {
		item.ID = s.id()
	} else if item.ID > s.nextID {
		s.nextID = item.ID
	}
	if item.Slug == "" {
		item.Slug = models.Slugify(item.Title)
	}
	for i := range item.Images {
		img := item.Images[i]
		if img.ID == 0 {
			img.ID = s.id()
		} else if img.ID > s.nextID {
			s.nextID = img.ID
		}
		img.ItemsID = item.ID
		item.Images[i] = img
		stored := img
		s.images[img.ID] = &stored
	}
	item.Images = nil
	stored := item
	s.items[item.ID] = &stored
	return s.snapshot(item.ID)
}

// Item returns the stored item with its current images
func (s *Server) Item(id uint64) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.Item{}, false
	}
	return s.snapshot(id), true
}

func (s *Server) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Server) snapshot(id uint64) models.Item {
	item := *s.items[id]
	item.Images = nil
	for _, img := range s.images {
		if img.ItemsID == id {
			item.Images = append(item.Images, *img)
		}
	}
	item.Images = item.SortedImages()
	return item
}

func (s *Server) record(r *http.Request, body []byte) {
	s.calls = append(s.calls, Call{
		Method:     r.Method,
		Path:       r.URL.Path,
		ActingUser: r.Header.Get(gateway.ActingUserHeader),
		Body:       json.RawMessage(body),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	opts := gateway.NormalizeListOptions(gateway.ListOptions{
		ItemType: models.ItemType(q.Get("item_type")),
		Page:     page,
		PerPage:  perPage,
	})

	s.mu.Lock()
	var ids []uint64
	for id, item := range s.items {
		if opts.ItemType == "" || item.Type == opts.ItemType {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	result := gateway.Page{Page: opts.Page, PerPage: opts.PerPage, TotalItems: len(ids), Items: []models.Item{}}
	start := (opts.Page - 1) * opts.PerPage
	for i := start; i < len(ids) && i < start+opts.PerPage; i++ {
		result.Items = append(result.Items, s.snapshot(ids[i]))
	}
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if item.Slug == slug {
			respondJSON(w, http.StatusOK, s.snapshot(id))
			return
		}
	}
	respondError(w, http.StatusNotFound, "item not found")
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	body, item, ok := decodeItem(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, body)

	if item.Slug == "" {
		item.Slug = models.Slugify(item.Title)
	}
	for _, existing := range s.items {
		if existing.Slug == item.Slug {
			respondError(w, http.StatusConflict, "slug already taken")
			return
		}
	}
	now := time.Now().UTC()
	item.ID = s.id()
	item.Images = nil
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := item
	s.items[item.ID] = &stored
	respondJSON(w, http.StatusCreated, s.snapshot(item.ID))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	body, item, ok := decodeItem(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, body)

	existing, found := s.items[id]
	if !found {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	item.ID = id
	item.Images = nil
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	if item.Slug == "" {
		item.Slug = existing.Slug
	}
	*existing = item
	respondJSON(w, http.StatusOK, s.snapshot(id))
}

func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	body, err := readBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in gateway.NewItemImage
	if err := json.Unmarshal(body, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, body)
	s.imageCreates++

	if s.failCreate != nil && s.failCreate(s.imageCreates) {
		respondError(w, http.StatusInternalServerError, "injected failure")
		return
	}
	if _, ok := s.items[itemID]; !ok {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	img := models.ItemImage{
		ID:           s.id(),
		ItemsID:      itemID,
		DisplayImage: in.DisplayImage,
		Seq:          in.Seq,
		ImageType:    in.ImageType,
		IsDisabled:   in.IsDisabled,
	}
	s.images[img.ID] = &img
	respondJSON(w, http.StatusCreated, img)
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	body, err := readBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch gateway.ItemImagePatch
	if err := json.Unmarshal(body, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, body)
	s.imageUpdates++

	if s.failUpdate != nil && s.failUpdate(s.imageUpdates) {
		respondError(w, http.StatusInternalServerError, "injected failure")
		return
	}
	img, ok := s.images[id]
	if !ok {
		respondError(w, http.StatusNotFound, "image not found")
		return
	}
	img.Seq = patch.Seq
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, nil)

	if _, ok := s.images[id]; !ok {
		respondError(w, http.StatusNotFound, "image not found")
		return
	}
	delete(s.images, id)
	w.WriteHeader(http.StatusNoContent)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}

func decodeItem(w http.ResponseWriter, r *http.Request) ([]byte, models.Item, bool) {
	body, err := readBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, models.Item{}, false
	}
	var item models.Item
	if err := json.Unmarshal(body, &item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid item: "+err.Error())
		return nil, models.Item{}, false
	}
	return body, item, true
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}
