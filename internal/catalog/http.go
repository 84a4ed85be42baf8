package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ProductAPI/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20

	welcomeText = "Welcome to the Product API! Go to /api/products to see all products."

	msgRequired = "Name and price are required fields."
	msgNotReady = "Service not ready."
	msgNoRoute  = "Route not found."
	msgNoMethod = "Method not allowed."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteMessage(w, http.StatusNotFound, msgNoRoute)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteMessage(w, http.StatusMethodNotAllowed, msgNoMethod)
	})

	r.Get("/", s.welcome)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", kit.Handle(s.Log, s.list))
		r.Post("/", kit.Handle(s.Log, s.create))
		r.Get("/{id}", kit.Handle(s.Log, s.get))
		r.Put("/{id}", kit.Handle(s.Log, s.update))
		r.Delete("/{id}", kit.Handle(s.Log, s.delete))
	})

	return r
}

func (s *Server) welcome(w http.ResponseWriter, _ *http.Request) {
	kit.WriteText(w, http.StatusOK, welcomeText)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteMessage(w, http.StatusServiceUnavailable, msgNotReady)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) error {
	products, err := s.Store.List(r.Context())
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	kit.WriteJSON(w, http.StatusOK, products)
	return nil
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		return fmt.Errorf("get product %s: %w", id, err)
	}
	if !ok {
		kit.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("Product with id %s not found.", id))
		return nil
	}
	kit.WriteJSON(w, http.StatusOK, p)
	return nil
}

type createRequest struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Price       givenPrice  `json:"price" validate:"required"`
	Category    string      `json:"category"`
	InStock     Field[bool] `json:"inStock"`
}

func (req createRequest) product() Product {
	p := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       float64(req.Price.Value),
		Category:    req.Category,
		InStock:     true,
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if req.InStock.Set {
		p.InStock = req.InStock.Value
	}
	return p
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) error {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate product: %w", err)
		}
		kit.WriteMessage(w, http.StatusBadRequest, msgRequired)
		return nil
	}

	p, err := s.Store.Insert(r.Context(), req.product())
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	s.Log.Debug("product created", zap.String("id", p.ID))
	kit.WriteJSON(w, http.StatusCreated, p)
	return nil
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	var patch Patch
	if err := decodeBody(w, r, &patch); err != nil {
		return fmt.Errorf("decode product update: %w", err)
	}

	p, ok, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	if !ok {
		kit.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("Product with id %s not found for update.", id))
		return nil
	}
	kit.WriteJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	ok, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if !ok {
		kit.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("Product with id %s not found for deletion.", id))
		return nil
	}
	kit.WriteMessage(w, http.StatusOK, fmt.Sprintf("Product with id %s deleted successfully.", id))
	return nil
}

// decodeBody reads a single JSON value. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("extra data after json object")
	}
	return nil
}
