package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// In-memory stand-in for the hash service, used for local development.

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type store struct {
	mu      sync.Mutex
	byHash  map[string]int
	byPost  map[int]string
	deleted map[int]bool
}

func newStore() *store {
	return &store{
		byHash:  map[string]int{},
		byPost:  map[int]string{},
		deleted: map[int]bool{},
	}
}

func (s *store) generate(postID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.byPost[postID]; ok {
		s.deleted[postID] = false
		return h
	}

	for {
		b := make([]byte, 8)
		for i := range b {
			b[i] = alphabet[rand.Intn(len(alphabet))]
		}
		h := string(b)
		if _, taken := s.byHash[h]; !taken {
			s.byHash[h] = postID
			s.byPost[postID] = h
			return h
		}
	}
}

func (s *store) resolve(hash string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byHash[hash]
	if !ok || s.deleted[id] {
		return 0, false
	}
	return id, true
}

func (s *store) setDeleted(postIDs []int, deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range postIDs {
		s.deleted[id] = deleted
	}
}

type postIDBody struct {
	PostID int `json:"post_id"`
}

func main() {
	st := newStore()

	http.HandleFunc("/generate-hash", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body postIDBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PostID < 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h := st.generate(body.PostID)
		fmt.Fprint(w, h)
		log.Printf("[hash] generated %s for post %d", h, body.PostID)
	})

	http.HandleFunc("/delete-hash", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body postIDBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		st.setDeleted([]int{body.PostID}, true)
		w.WriteHeader(http.StatusOK)
		log.Printf("[hash] deleted alias for post %d", body.PostID)
	})

	http.HandleFunc("/restore-all", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var ids []int
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		st.setDeleted(ids, false)
		w.WriteHeader(http.StatusOK)
		log.Printf("[hash] restored aliases for %d posts", len(ids))
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	})

	// Everything else is treated as a hash lookup.
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hash := r.URL.Path[1:]
		if hash == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id, ok := st.resolve(hash)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, strconv.Itoa(id))
	})

	log.Println("Mock hash service running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
