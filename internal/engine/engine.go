// Package engine implements the signal-to-vector profile and similarity
// engine: bounded trait updates, vector fusion, retrieval, explanation,
// and the clustered 3D compatibility map.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/musubi/internal/cluster"
	"github.com/hyperjump/musubi/internal/config"
	"github.com/hyperjump/musubi/internal/embedding"
	"github.com/hyperjump/musubi/internal/fusion"
	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/internal/projection"
	"github.com/hyperjump/musubi/internal/store"
	"github.com/hyperjump/musubi/internal/traits"
)

// confidenceGain scales how much one turn's extraction confidence raises a
// person's overall confidence. Saturating, so confidence never reaches 1
// in a single turn and never decreases.
const confidenceGain = 0.15

// Persister saves person records after each write. A nil Persister keeps
// the engine memory-only (used by tests).
type Persister interface {
	SavePerson(ctx context.Context, p *models.Person) error
}

// Directory indexes people for name/interest search. Nil disables indexing.
type Directory interface {
	Index(p *models.Person) error
}

// Config carries the engine's tunables.
type Config struct {
	Profile      config.ProfileConfig
	Cluster      config.ClusterConfig
	Projection   config.ProjectionConfig
	SemanticDims int
}

// Engine is the profile and similarity engine. All state lives in the
// store handle passed at construction; there is no ambient global.
type Engine struct {
	store     *store.Store
	persister Persister
	directory Directory
	embedder  *embedding.ResilientEmbedder
	model     *traits.Model
	fuser     *fusion.Fuser
	cfg       Config
	logger    *zap.Logger

	// Writes are read-modify-write over a cloned record, so they must
	// serialize per person id or a slower turn overwrites a faster one.
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New creates an engine over the given store and collaborators.
func New(
	st *store.Store,
	persister Persister,
	dir Directory,
	emb *embedding.ResilientEmbedder,
	model *traits.Model,
	fuser *fusion.Fuser,
	cfg Config,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:     st,
		persister: persister,
		directory: dir,
		embedder:  emb,
		model:     model,
		fuser:     fuser,
		cfg:       cfg,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// personLock returns the write lock for one person id.
func (e *Engine) personLock(id string) *sync.Mutex {
	e.lockMu.Lock()
	defer e.lockMu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Onboard creates a person with default traits, confidence 0, and a
// semantic memory seeded from the mean embedding of the declared interest
// tags (zero vector when there are none). The fused vector is adopted
// outright since no stored vector exists yet.
func (e *Engine) Onboard(ctx context.Context, input *models.OnboardInput) (*models.Person, error) {
	if input.DisplayName == "" {
		return nil, &ValidationError{Reason: "display_name is required"}
	}
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}
	lock := e.personLock(id)
	lock.Lock()
	defer lock.Unlock()
	if e.store.Has(id) {
		return nil, &ValidationError{Reason: fmt.Sprintf("person %q already exists", id)}
	}

	semantic := make([]float32, e.cfg.SemanticDims)
	if len(input.Interests) > 0 {
		tagVecs, usedFallback := e.embedder.EmbedBatch(ctx, input.Interests)
		if usedFallback {
			e.logger.Warn("interest tag embedding degraded to fallback", zap.String("person", id))
		}
		semantic = fusion.SeedSemantic(tagVecs, e.cfg.SemanticDims)
	}

	now := time.Now()
	p := &models.Person{
		ID:          id,
		DisplayName: input.DisplayName,
		Age:         input.Age,
		Institution: input.Institution,
		Interests:   append([]string(nil), input.Interests...),
		Traits:      models.DefaultTraitProfile(),
		Confidence:  0,
		Semantic:    semantic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Vector = e.fuser.Fuse(p.Traits, p.Semantic)

	// Persist first: if the save fails the person must not exist in
	// memory either, or a retry after the error would hit "already exists"
	// for a record that vanishes on restart.
	if err := e.persist(ctx, p); err != nil {
		return nil, err
	}
	e.store.Put(p)
	if e.directory != nil {
		if err := e.directory.Index(p); err != nil {
			e.logger.Error("failed to index person in directory", zap.String("person", id), zap.Error(err))
		}
	}
	e.logger.Info("person onboarded", zap.String("person", id), zap.Int("interests", len(p.Interests)))
	return p.Clone(), nil
}

// ProcessTurn folds one conversational turn into a person's profile:
// signals nudge traits, the message embedding updates semantic memory,
// and the fused candidate is blended into the stored vector by
// confidence x turn_blend. The embedding call is the only external
// dependency and degrades to the deterministic fallback on failure.
// Turns for the same person serialize; no update is ever lost to a
// slower concurrent turn.
func (e *Engine) ProcessTurn(ctx context.Context, personID string, turn *models.TurnInput) (*models.TurnResult, error) {
	if turn.Confidence < 0 || turn.Confidence > 1 {
		return nil, &ValidationError{Reason: fmt.Sprintf("confidence %v outside [0,1]", turn.Confidence)}
	}
	lock := e.personLock(personID)
	lock.Lock()
	defer lock.Unlock()
	p, ok := e.store.Get(personID)
	if !ok {
		return nil, &NotFoundError{ID: personID}
	}

	p.Traits = e.model.Apply(p.Traits, turn.Signals, turn.Confidence)

	usedFallback := false
	if turn.Message != "" {
		var msgVec []float32
		msgVec, usedFallback = e.embedder.Embed(ctx, turn.Message)
		p.Semantic = fusion.BlendSemantic(p.Semantic, msgVec, e.cfg.Profile.SemanticBlend)
	}

	candidate := e.fuser.Fuse(p.Traits, p.Semantic)
	p.Vector = fusion.Blend(p.Vector, candidate, turn.Confidence*e.cfg.Profile.TurnBlend)
	p.Confidence += (1 - p.Confidence) * confidenceGain * turn.Confidence
	p.UpdatedAt = time.Now()

	if err := e.persist(ctx, p); err != nil {
		return nil, err
	}
	e.store.Put(p)
	return &models.TurnResult{Person: p.Clone(), EmbeddingFallback: usedFallback}, nil
}

// Person returns a copy of the person record.
func (e *Engine) Person(id string) (*models.Person, error) {
	p, ok := e.store.Get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return p, nil
}

// Vectors returns all ids and current profile vectors in id-sorted order.
func (e *Engine) Vectors() ([]string, [][]float32) {
	return e.store.Vectors()
}

// Map clusters the full vector set and lays it out in 3D. This scans the
// world: at least O(n^2) work, so callers should cache rather than invoke
// per request.
func (e *Engine) Map(ctx context.Context) (*models.CompatibilityMap, error) {
	ids, vecs := e.store.Vectors()
	labels := cluster.DBSCAN(vecs, cluster.Params{
		Epsilon: e.cfg.Cluster.Epsilon,
		MinPts:  e.cfg.Cluster.MinPts,
	})
	proj := projection.Project(vecs, projection.Params{
		Neighbors: e.cfg.Projection.Neighbors,
		MinDist:   e.cfg.Projection.MinDist,
		Epochs:    e.cfg.Projection.Epochs,
		Seed:      e.cfg.Projection.Seed,
	})
	out := &models.CompatibilityMap{
		Points:             make([]models.MapPoint, len(ids)),
		ProjectionFallback: proj.Fallback,
	}
	for i, id := range ids {
		out.Points[i] = models.MapPoint{
			PersonID: id,
			Cluster:  labels[i],
			Position: proj.Points[i],
		}
	}
	return out, nil
}

func (e *Engine) persist(ctx context.Context, p *models.Person) error {
	if e.persister == nil {
		return nil
	}
	if err := e.persister.SavePerson(ctx, p); err != nil {
		return fmt.Errorf("failed to persist person %s: %w", p.ID, err)
	}
	return nil
}

// Seed loads persisted records into the store and the directory index.
// Called once at startup before the engine serves requests.
func (e *Engine) Seed(people []*models.Person) error {
	e.store.Init(people)
	if e.directory == nil {
		return nil
	}
	var errs []error
	for _, p := range people {
		if err := e.directory.Index(p); err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", p.ID, err))
		}
	}
	return errors.Join(errs...)
}
