package integrity

import (
	"context"
	"runtime"
	"time"

	"course-registry/core/keyvalue"
	"course-registry/core/reconcile"
	"course-registry/feature/integrity/checks"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	kv      keyvalue.Store
	db      *gorm.DB
	engine  *reconcile.Engine[models.Registration]
	logger  *zap.Logger
	started time.Time
}

// NewService creates a new integrity service. db and engine may be nil.
func NewService(kv keyvalue.Store, db *gorm.DB, engine *reconcile.Engine[models.Registration], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		kv:      kv,
		db:      db,
		engine:  engine,
		logger:  logger,
		started: time.Now(),
	}
}

// CheckStructure inspects the durable key-value store.
func (s *Service) CheckStructure(ctx context.Context) (*checks.StructureReport, error) {
	return checks.CheckStructure(ctx, s.kv)
}

// FixStructure repairs what CheckStructure reported.
func (s *Service) FixStructure(ctx context.Context, report *checks.StructureReport) error {
	return checks.FixStructure(ctx, s.kv, s.logger, report)
}

// CheckServer compares the relational schema with the row models.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}

// StoreInfo summarizes one registration store.
type StoreInfo struct {
	Role    string `json:"role"`
	Adapter string `json:"adapter"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// DebugInfo describes the running process and its stores.
type DebugInfo struct {
	Timestamp    string      `json:"timestamp"`
	GoVersion    string      `json:"goVersion"`
	Platform     string      `json:"platform"`
	Uptime       string      `json:"uptime"`
	Goroutines   int         `json:"goroutines"`
	KVDriver     string      `json:"kvDriver"`
	Database     string      `json:"database"`
	Stores       []StoreInfo `json:"stores"`
	Method       string      `json:"method,omitempty"`
	URL          string      `json:"url,omitempty"`
	RequestRayID string      `json:"rayId,omitempty"`
}

// Debug collects process and store information.
func (s *Service) Debug(ctx context.Context) DebugInfo {
	info := DebugInfo{
		Timestamp:  time.Now().UTC().Format(models.DateLayout),
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Database:   "not_configured",
		Stores:     []StoreInfo{},
	}
	if s.kv != nil {
		info.KVDriver = s.kv.Name()
	}
	if s.db != nil {
		info.Database = s.db.Dialector.Name()
	}
	if s.engine == nil {
		return info
	}

	sources := s.engine.Sources()
	for i, snap := range s.engine.Load(ctx) {
		si := StoreInfo{
			Role:    string(snap.Role),
			Adapter: sources[i].Adapter.Name(),
			Count:   len(snap.Records),
		}
		if snap.Err != nil {
			si.Error = snap.Err.Error()
		}
		info.Stores = append(info.Stores, si)
	}
	return info
}
