// Package poultrytest provides an in-memory poultry API for tests and demos.
package poultrytest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kombefarm/flockdash/internal/poultry"
)

var ginMode sync.Once

// Backend is an in-memory flock store served over the same routes as the
// real backend. stockRemaining is derived on every write.
type Backend struct {
	mu      sync.Mutex
	flocks  map[int64]poultry.FlockRecord
	nextID  int64
	token   string
	calls   map[string]int
	failure map[string]Failure
}

// Failure makes the next matching request fail. Status 0 with Raw set sends
// a non-JSON body.
type Failure struct {
	Status  int
	Message string
	Raw     string
}

// NewBackend seeds a backend with records. A non-empty token requires
// "Bearer <token>" on every request.
func NewBackend(token string, seed ...poultry.FlockRecord) *Backend {
	b := &Backend{
		flocks:  make(map[int64]poultry.FlockRecord),
		token:   token,
		calls:   make(map[string]int),
		failure: make(map[string]Failure),
		nextID:  1,
	}
	for _, rec := range seed {
		if rec.FlockID == 0 {
			rec.FlockID = b.nextID
		}
		if rec.FlockID >= b.nextID {
			b.nextID = rec.FlockID + 1
		}
		b.flocks[rec.FlockID] = derive(rec)
	}
	return b
}

// Handler returns the gin engine serving the flock routes.
func (b *Backend) Handler() http.Handler {
	ginMode.Do(func() { gin.SetMode(gin.ReleaseMode) })
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api/poultry", b.authorize)
	api.GET("/flocks", b.list)
	api.POST("/flocks", b.create)
	api.PUT("/flocks/:id", b.update)
	api.DELETE("/flocks/:id", b.remove)
	return engine
}

// Start serves the backend on an httptest server. Callers close it.
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b.Handler())
}

// FailNext arranges for the next request to op ("list", "create", "update",
// "delete") to fail with f.
func (b *Backend) FailNext(op string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure[op] = f
}

// Calls reports how many requests op has received.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// Flocks returns the stored records ordered by id.
func (b *Backend) Flocks() []poultry.FlockRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedLocked()
}

func (b *Backend) authorize(c *gin.Context) {
	if b.token == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+b.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status":  http.StatusUnauthorized,
			"message": "Full authentication is required to access this resource",
		})
		return
	}
	c.Next()
}

// begin counts the call and reports whether a queued failure was written.
func (b *Backend) begin(c *gin.Context, op string) bool {
	b.mu.Lock()
	b.calls[op]++
	f, ok := b.failure[op]
	delete(b.failure, op)
	b.mu.Unlock()
	if !ok {
		return false
	}
	if f.Raw != "" {
		status := f.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.Data(status, "text/plain; charset=utf-8", []byte(f.Raw))
		return true
	}
	c.JSON(f.Status, gin.H{"status": f.Status, "message": f.Message})
	return true
}

func (b *Backend) list(c *gin.Context) {
	if b.begin(c, "list") {
		return
	}
	b.mu.Lock()
	out := b.sortedLocked()
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) create(c *gin.Context) {
	if b.begin(c, "create") {
		return
	}
	var rec poultry.FlockRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}
	if strings.TrimSpace(rec.FlockType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "flockType is required"})
		return
	}
	b.mu.Lock()
	rec.FlockID = b.nextID
	b.nextID++
	rec = derive(rec)
	b.flocks[rec.FlockID] = rec
	b.mu.Unlock()
	c.JSON(http.StatusCreated, rec)
}

func (b *Backend) update(c *gin.Context) {
	if b.begin(c, "update") {
		return
	}
	id, ok := b.pathID(c)
	if !ok {
		return
	}
	var rec poultry.FlockRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.flocks[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Not found"})
		return
	}
	rec.FlockID = id
	rec = derive(rec)
	b.flocks[id] = rec
	c.JSON(http.StatusOK, rec)
}

func (b *Backend) remove(c *gin.Context) {
	if b.begin(c, "delete") {
		return
	}
	id, ok := b.pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.flocks[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Not found"})
		return
	}
	delete(b.flocks, id)
	c.Status(http.StatusNoContent)
}

func (b *Backend) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "invalid flock id"})
		return 0, false
	}
	return id, true
}

func (b *Backend) sortedLocked() []poultry.FlockRecord {
	out := make([]poultry.FlockRecord, 0, len(b.flocks))
	for _, rec := range b.flocks {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlockID < out[j].FlockID })
	return out
}

func derive(rec poultry.FlockRecord) poultry.FlockRecord {
	rec.StockRemaining = max(rec.NbrOfBirds-rec.Reduction-rec.Mortality, 0)
	rec.SoldOut = rec.StockRemaining == 0 && rec.NbrOfBirds > 0
	return rec
}
