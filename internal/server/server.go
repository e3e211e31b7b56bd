// Package server exposes the document conversions of the editor over HTTP.
package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/xcms-dev/richtext/classname"
	"github.com/xcms-dev/richtext/editor"
	"github.com/xcms-dev/richtext/extensions"
	"github.com/xcms-dev/richtext/markdown"
)

// Config configures the extensions of the editors built for requests.
type Config struct {
	Extensions extensions.BuildConfig
	// Options are the enabled editor options, reported by /api/v1/features.
	Options []extensions.Option
	Logger  *slog.Logger
}

// Server serves the conversions of one extension set.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger
}

// New creates a server and registers its routes under /api/v1.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	api := s.app.Group("/api/v1")
	api.Get("/features", s.features)
	api.Post("/render/html", s.renderHTML)
	api.Post("/render/markdown", s.renderMarkdown)
	api.Post("/import/markdown", s.importMarkdown)
	api.Post("/import/html", s.importHTML)
	api.Post("/paste", s.paste)
	api.Post("/sniff", s.sniff)
	api.Post("/classname", s.classname)
	return s
}

// App returns the fiber application, for tests and middlewares.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for the active requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// newEditor creates an editor for one request; editors are not shared
// between goroutines.
func (s *Server) newEditor(content interface{}) (*editor.Editor, error) {
	e, err := editor.New(editor.Config{
		Extensions: extensions.Build(s.cfg.Extensions),
		Content:    content,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return e, nil
}

func (s *Server) parseDocument(c *fiber.Ctx) (*editor.Editor, error) {
	var doc map[string]interface{}
	if err := c.BodyParser(&doc); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid document: "+err.Error())
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "missing document")
	}
	return s.newEditor(doc)
}

func (s *Server) features(c *fiber.Ctx) error {
	opts := s.cfg.Options
	if len(opts) == 0 {
		opts = extensions.AllOptions()
	}
	unsupported := extensions.Unsupported(extensions.Build(s.cfg.Extensions), opts)
	if unsupported == nil {
		unsupported = []extensions.Option{}
	}
	return c.JSON(fiber.Map{"features": opts, "unsupported": unsupported})
}

func (s *Server) renderHTML(c *fiber.Ctx) error {
	e, err := s.parseDocument(c)
	if err != nil {
		return err
	}
	out, err := e.GetHTML()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"html": out})
}

func (s *Server) renderMarkdown(c *fiber.Ctx) error {
	e, err := s.parseDocument(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"markdown": e.GetMarkdown()})
}

type importMarkdownRequest struct {
	Markdown string `json:"markdown"`
}

func (s *Server) importMarkdown(c *fiber.Ctx) error {
	var req importMarkdownRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	e, err := s.newEditor(nil)
	if err != nil {
		return err
	}
	if err := e.SetMarkdown(req.Markdown); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(e.GetJSON())
}

type importHTMLRequest struct {
	HTML string `json:"html"`
}

func (s *Server) importHTML(c *fiber.Ctx) error {
	var req importHTMLRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	e, err := s.newEditor(req.HTML)
	if err != nil {
		return err
	}
	return c.JSON(e.GetJSON())
}

type pasteRequest struct {
	// Doc is the document pasted into. An empty document is used when it
	// is missing.
	Doc  map[string]interface{} `json:"doc"`
	Text string                 `json:"text"`
	// From and To select the range replaced by the pasted text. The paste
	// goes to the start of the document when From is missing, and To
	// defaults to From.
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (s *Server) paste(c *fiber.Ctx) error {
	var req pasteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var content interface{}
	if req.Doc != nil {
		content = req.Doc
	}
	e, err := s.newEditor(content)
	if err != nil {
		return err
	}
	if req.From != nil {
		to := *req.From
		if req.To != nil {
			to = *req.To
		}
		e.SetTextSelection(*req.From, to)
	}
	handled := e.Paste(req.Text)
	sel := e.Selection()
	return c.JSON(fiber.Map{
		"handled":   handled,
		"doc":       e.GetJSON(),
		"selection": fiber.Map{"from": sel.From, "to": sel.To},
	})
}

type sniffRequest struct {
	Text string `json:"text"`
}

func (s *Server) sniff(c *fiber.Ctx) error {
	var req sniffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	patterns := markdown.MatchingPatterns(req.Text)
	if patterns == nil {
		patterns = []string{}
	}
	return c.JSON(fiber.Map{
		"markdown": markdown.LooksLikeMarkdown(req.Text),
		"patterns": patterns,
	})
}

type classnameRequest struct {
	Class string `json:"class"`
}

func (s *Server) classname(c *fiber.Ctx) error {
	var req classnameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"valid": classname.IsValid(req.Class)})
}
