package monitoring

import (
	"errors"
	"net/http"

	"github.com/giongto35/screen-recorder/pkg/recorder"
	"github.com/goccy/go-json"
)

// Controller is a running recorder.
type Controller interface {
	Pause() error
	Resume() error
	End()
	Status() recorder.Status
	Session() string
	TakeSnapshot(path string) error
}

type controlStatus struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Control adds the recorder control routes when they are enabled.
func (m *Monitoring) Control(c Controller) {
	if !m.conf.ControlEnabled || c == nil {
		return
	}
	path := m.conf.URLPrefix + "/recorder"
	m.log.Info().Msgf("recorder control is enabled at %v", m.server.Addr+path)

	m.mux.HandleFunc("GET "+path+"/status", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, c, nil)
	})
	m.mux.HandleFunc("POST "+path+"/pause", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, c, c.Pause())
	})
	m.mux.HandleFunc("POST "+path+"/resume", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, c, c.Resume())
	})
	m.mux.HandleFunc("POST "+path+"/end", func(w http.ResponseWriter, _ *http.Request) {
		c.End()
		reply(w, c, nil)
	})
	m.mux.HandleFunc("POST "+path+"/snapshot", func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("path")
		if p == "" {
			http.Error(w, "no snapshot path", http.StatusBadRequest)
			return
		}
		err := c.TakeSnapshot(p)
		if err != nil {
			m.log.Warn().Err(err).Msgf("snapshot %v", p)
		}
		reply(w, c, err)
	})
}

func reply(w http.ResponseWriter, c Controller, err error) {
	st := controlStatus{Status: c.Status().String(), Session: c.Session()}
	code := http.StatusOK
	if err != nil {
		st.Error = err.Error()
		code = http.StatusInternalServerError
		if errors.Is(err, recorder.ErrNotRecording) {
			code = http.StatusConflict
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}
