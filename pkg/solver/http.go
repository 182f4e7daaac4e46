package solver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ProblemFactory builds the director, phase list, and termination for one
// submitted problem from a request body. It is supplied by the embedding
// application — the HTTP facade has no wire format for a WorkingSolution
// or ConstraintSet (spec §6: those are produced out-of-scope).
type ProblemFactory func(body []byte) (job PartitionJob, err error)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HTTPServer is the thin transport binding SPEC_FULL.md §4.6 describes:
// submit a problem, poll or stream its result, cancel it. It is the only
// place HTTP appears in the module — everything it calls is already
// exposed on SolverManager without knowing gin or websocket exist.
type HTTPServer struct {
	manager *SolverManager
	factory ProblemFactory
}

// NewHTTPServer wraps manager, using factory to turn submitted request
// bodies into runnable PartitionJobs.
func NewHTTPServer(manager *SolverManager, factory ProblemFactory) *HTTPServer {
	return &HTTPServer{manager: manager, factory: factory}
}

// RegisterRoutes attaches the solver routes to r.
func (s *HTTPServer) RegisterRoutes(r gin.IRouter) {
	r.POST("/solve", s.handleSubmit)
	r.GET("/solve/:id", s.handlePoll)
	r.POST("/solve/:id/cancel", s.handleCancel)
	r.GET("/solve/:id/stream", s.handleStream)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})))
}

func (s *HTTPServer) handleSubmit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := s.factory(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.manager.Submit(job.Director, job.Phases, job.Term)
	c.JSON(http.StatusAccepted, gin.H{"id": id})
}

func (s *HTTPServer) jobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return uuid.UUID{}, false
	}
	return id, true
}

func (s *HTTPServer) handlePoll(c *gin.Context) {
	id, ok := s.jobID(c)
	if !ok {
		return
	}
	result, done, err := s.manager.Poll(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !done {
		c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "running"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *HTTPServer) handleCancel(c *gin.Context) {
	id, ok := s.jobID(c)
	if !ok {
		return
	}
	s.manager.Cancel(id)
	c.Status(http.StatusNoContent)
}

// handleStream upgrades to a websocket and pushes every BestSolutionEvent
// for id until the solve finishes, then sends the final SolveResult and
// closes — the "streaming sequence of (new_best_solution, score)
// improvements plus a final SolveResult" spec §4.6 names.
func (s *HTTPServer) handleStream(c *gin.Context) {
	id, ok := s.jobID(c)
	if !ok {
		return
	}
	best := s.manager.BestSolutions(id)
	done := s.manager.Done(id)
	if best == nil || done == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrUnknownJob.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("solver: failed to upgrade websocket")
		return
	}
	defer conn.Close()

	for {
		select {
		case ev := <-best:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			result, _, _ := s.manager.Poll(id)
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			_ = conn.WriteJSON(result)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
