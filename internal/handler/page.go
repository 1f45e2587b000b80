package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/MikhailRaia/qr-generator/internal/form"
	"github.com/MikhailRaia/qr-generator/internal/pool"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

const pageBufferPoolSize = 32

type pageView struct {
	Input           string
	Busy            bool
	QRCodeURL       string
	ErrorMessage    string
	Toast           *form.Toast
	ToastDurationMS int64
}

type pageRenderer struct {
	tmpl          *template.Template
	buffers       *pool.Pool[*bytes.Buffer]
	toastDuration time.Duration
}

func newPageRenderer(toastDuration time.Duration) *pageRenderer {
	return &pageRenderer{
		tmpl:          pageTemplate,
		buffers:       pool.New(pageBufferPoolSize, func() *bytes.Buffer { return new(bytes.Buffer) }),
		toastDuration: toastDuration,
	}
}

func (p *pageRenderer) view(state form.State) pageView {
	v := pageView{
		Input:           state.Input,
		Busy:            state.Busy(),
		Toast:           state.Toast,
		ToastDurationMS: p.toastDuration.Milliseconds(),
	}

	if state.Status == form.StatusReady {
		v.QRCodeURL = state.Result
	}

	if state.Status == form.StatusFailed && state.Err != nil {
		v.ErrorMessage = state.Err.Message
	}

	return v
}

// render writes the page for state. Nothing is sent if the template fails.
func (p *pageRenderer) render(w http.ResponseWriter, status int, state form.State) error {
	buf := p.buffers.Get()
	defer p.buffers.Put(buf)

	if err := p.tmpl.Execute(buf, p.view(state)); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
