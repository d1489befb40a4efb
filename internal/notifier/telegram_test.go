package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type telegramRequest struct {
	path        string
	contentType string
	fields      map[string]string
	fileField   string
	fileName    string
	fileBody    string
	json        map[string]any
}

type TelegramTestSuite struct {
	suite.Suite
	server   *httptest.Server
	mu       sync.Mutex
	requests []telegramRequest
	statuses []int
}

func TestTelegramSuite(t *testing.T) {
	suite.Run(t, new(TelegramTestSuite))
}

func (s *TelegramTestSuite) SetupTest() {
	s.requests = nil
	s.statuses = nil

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		req := telegramRequest{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), fields: map[string]string{}}

		if r.Header.Get("Content-Type") == "application/json" {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &req.json)
		} else if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				req.fields[k] = v[0]
			}

			for k, files := range r.MultipartForm.File {
				req.fileField = k
				req.fileName = files[0].Filename

				f, _ := files[0].Open()
				content, _ := io.ReadAll(f)
				f.Close()

				req.fileBody = string(content)
			}
		}

		s.requests = append(s.requests, req)

		status := http.StatusOK
		if len(s.statuses) > 0 {
			status = s.statuses[0]
			s.statuses = s.statuses[1:]
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
}

func (s *TelegramTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *TelegramTestSuite) newTelegram() *Telegram {
	return NewTelegram("TOKEN", "42",
		WithAPIBase(s.server.URL+"/"),
		WithHTTPClient(s.server.Client()),
	)
}

func (s *TelegramTestSuite) TestSendText() {
	err := s.newTelegram().SendText(context.Background(), "*hola*")
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal("/botTOKEN/sendMessage", s.requests[0].path)
	s.Equal("42", s.requests[0].json["chat_id"])
	s.Equal("*hola*", s.requests[0].json["text"])
	s.Equal("Markdown", s.requests[0].json["parse_mode"])
}

func (s *TelegramTestSuite) TestSendTextFailsAfterOneAttempt() {
	s.statuses = []int{http.StatusBadGateway}

	err := s.newTelegram().SendText(context.Background(), "lost")
	s.Require().Error(err)
	s.True(errors.IsNotificationDelivery(err))
	s.Contains(err.Error(), "status 502")
	s.Len(s.requests, 1)
}

func (s *TelegramTestSuite) TestSendImageFailsAfterOneAttempt() {
	path := filepath.Join(s.T().TempDir(), "chart.png")
	s.Require().NoError(os.WriteFile(path, []byte("png-bytes"), 0644))
	s.statuses = []int{http.StatusInternalServerError}

	err := s.newTelegram().SendImage(context.Background(), path)
	s.Require().Error(err)
	s.True(errors.IsNotificationDelivery(err))
	s.Len(s.requests, 1)
}

func (s *TelegramTestSuite) TestSendImageAsPhoto() {
	path := filepath.Join(s.T().TempDir(), "chart.png")
	s.Require().NoError(os.WriteFile(path, []byte("png-bytes"), 0644))

	s.Require().NoError(s.newTelegram().SendImage(context.Background(), path))

	s.Require().Len(s.requests, 1)
	s.Equal("/botTOKEN/sendPhoto", s.requests[0].path)
	s.Equal("42", s.requests[0].fields["chat_id"])
	s.Equal("photo", s.requests[0].fileField)
	s.Equal("chart.png", s.requests[0].fileName)
	s.Equal("png-bytes", s.requests[0].fileBody)
}

func (s *TelegramTestSuite) TestSendImageAsDocument() {
	path := filepath.Join(s.T().TempDir(), "tae_histograma.html")
	s.Require().NoError(os.WriteFile(path, []byte("<html></html>"), 0644))

	s.Require().NoError(s.newTelegram().SendImage(context.Background(), path))

	s.Require().Len(s.requests, 1)
	s.Equal("/botTOKEN/sendDocument", s.requests[0].path)
	s.Equal("document", s.requests[0].fileField)
}

func (s *TelegramTestSuite) TestMissingFile() {
	err := s.newTelegram().SendImage(context.Background(), filepath.Join(s.T().TempDir(), "missing.png"))
	s.True(errors.IsNotificationDelivery(err))
	s.Empty(s.requests)
}

func (s *TelegramTestSuite) TestNotConfigured() {
	err := NewTelegram("", "42").SendText(context.Background(), "x")
	s.True(errors.IsNotificationDelivery(err))
}

func (s *TelegramTestSuite) TestUnreachableHostHidesToken() {
	s.server.Close()

	err := s.newTelegram().SendText(context.Background(), "x")
	s.Require().Error(err)
	s.True(errors.IsNotificationDelivery(err))
	s.NotContains(err.Error(), "TOKEN")
}
