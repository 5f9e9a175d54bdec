package fakeapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Media is an uploaded file as seen by the fake API.
type Media struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	SHA256      string    `json:"sha256"`
	CreatedAt   time.Time `json:"createdAt"`
	Data        []byte    `json:"-"`
}

// TranscriptionCall records one call to the transcription endpoint.
type TranscriptionCall struct {
	MediaID   string
	Prompt    *string
	HasPrompt bool
}

// Config controls failure injection.
type Config struct {
	// UploadStatus, when non-zero, is returned by POST /media instead of a result.
	UploadStatus int
	// TranscriptionStatus, when non-zero, is returned by the transcription endpoint.
	TranscriptionStatus int
	// Transcript is the text stored for every transcription request.
	Transcript string
}

// Server is an in-memory stand-in for the upload-ai API, used for local
// development and by tests.
type Server struct {
	config Config
	router *gin.Engine
	logger *zap.Logger

	mu             sync.Mutex
	media          map[string]*Media
	uploads        int
	transcriptions []TranscriptionCall
	httpServer     *http.Server
}

func NewServer(config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: config,
		router: gin.New(),
		logger: logger,
		media:  make(map[string]*Media),
	}

	s.router.Use(requestID())
	s.router.Use(structuredLogging(logger))
	s.router.Use(errorHandler(logger))
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Unix()})
	})
	s.router.POST("/media", s.uploadMedia)
	s.router.POST("/media/:id/transcription", s.createTranscription)
	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("fake upload-ai API listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) uploadMedia(c *gin.Context) {
	s.mu.Lock()
	s.uploads++
	s.mu.Unlock()

	if s.config.UploadStatus != 0 {
		abortWithError(c, newInjectedError(s.config.UploadStatus, "upload rejected"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, newBadRequestError("missing file field"))
		return
	}

	f, err := header.Open()
	if err != nil {
		abortWithError(c, newBadRequestError(err.Error()))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, newBadRequestError(err.Error()))
		return
	}

	media := &Media{
		ID:          uuid.NewString(),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        len(data),
		SHA256:      checksum(data),
		CreatedAt:   time.Now().UTC(),
		Data:        data,
	}

	s.mu.Lock()
	s.media[media.ID] = media
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (s *Server) createTranscription(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Prompt *string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, newBadRequestError(err.Error()))
		return
	}

	s.mu.Lock()
	s.transcriptions = append(s.transcriptions, TranscriptionCall{
		MediaID:   id,
		Prompt:    body.Prompt,
		HasPrompt: body.Prompt != nil,
	})
	_, known := s.media[id]
	s.mu.Unlock()

	if s.config.TranscriptionStatus != 0 {
		abortWithError(c, newInjectedError(s.config.TranscriptionStatus, "transcription rejected"))
		return
	}
	if !known {
		abortWithError(c, newNotFoundError("media "+id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcription": s.config.Transcript})
}

// Media returns a stored upload by id.
func (s *Server) Media(id string) (*Media, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.media[id]
	return m, ok
}

// Uploads returns how many times the submission endpoint was called.
func (s *Server) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Transcriptions returns the recorded transcription calls.
func (s *Server) Transcriptions() []TranscriptionCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TranscriptionCall(nil), s.transcriptions...)
}
