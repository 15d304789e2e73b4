package console

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minekent/skillsengine/internal/antispam"
	"github.com/minekent/skillsengine/internal/command"
	"github.com/minekent/skillsengine/internal/config"
	"github.com/minekent/skillsengine/internal/logger"
)

// Runner executes parsed operator commands. *command.Handler implements it.
type Runner interface {
	Run(c *command.Command) string
}

// Server accepts operator sessions and feeds their input to a Runner.
type Server struct {
	cfg     *config.ConsoleConfig
	runner  Runner
	auth    *Authenticator
	limiter *LoginRateLimiter
	conns   *ConnLimiter

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
	clients  map[Client]struct{}
	sessions sync.WaitGroup

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a console server. Call Shutdown to release its resources.
func NewServer(cfg *config.ConsoleConfig, runner Runner) *Server {
	limiter := NewLoginRateLimiter(cfg.RateLimit)
	return &Server{
		cfg:      cfg,
		runner:   runner,
		auth:     NewAuthenticator(cfg, limiter),
		limiter:  limiter,
		conns:    NewConnLimiter(cfg.Connections),
		clients:  make(map[Client]struct{}),
		shutdown: make(chan struct{}),
	}
}

// StartTelnet listens on address and serves line sessions until Shutdown.
func (s *Server) StartTelnet(address string) error {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	logger.Info("Console listening", "address", l.Addr().String())
	return s.Serve(l)
}

// Serve accepts telnet connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		l.Close()
		return nil
	default:
	}
	s.listener = l
	s.mu.Unlock()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			logger.Error("Error accepting console connection", "error", err)
			continue
		}

		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if !s.conns.TryAcquire(ip) {
		logger.Warning("Console connection rejected - limit exceeded", "remote_addr", remoteAddr, "ip", ip)
		conn.Write([]byte("Too many connections. Please try again later.\r\n"))
		conn.Close()
		return
	}
	defer s.conns.Release(ip)

	s.handleClient(NewTelnetClient(conn), ip)
}

// WebSocketHandler returns the HTTP handler serving sessions at /ws.
func (s *Server) WebSocketHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// StartWebSocket serves WebSocket sessions on address until Shutdown.
func (s *Server) StartWebSocket(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.WebSocketHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		return nil
	default:
	}
	s.http = srv
	s.mu.Unlock()

	logger.Info("Console WebSocket listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve websocket console: %w", err)
	}
	return nil
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.conns.TryAcquire(clientIP) {
		logger.Warning("Console WebSocket rejected - limit exceeded", "remote_addr", r.RemoteAddr, "client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Console WebSocket rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("Console WebSocket upgrade failed", "error", err)
		s.conns.Release(clientIP)
		return
	}
	if s.cfg.WebSocket.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	}

	s.sessions.Add(1)
	go func() {
		defer s.sessions.Done()
		defer s.conns.Release(clientIP)
		s.handleClient(NewWebSocketClient(wsConn), clientIP)
	}()
}

// getRealIP returns the client IP, preferring the X-Forwarded-For and
// X-Real-IP headers set by a reverse proxy.
func getRealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return extractIP(r.RemoteAddr)
}

// ServeLocal runs a session on client without a login, for the daemon's own terminal.
// It returns when the client quits or its input ends.
func (s *Server) ServeLocal(client Client) {
	if !s.track(client) {
		return
	}
	defer s.untrack(client)

	s.session(client, "local", nil)
}

func (s *Server) handleClient(client Client, ip string) {
	if !s.track(client) {
		return
	}
	defer s.untrack(client)

	logger.Info("Console client connected", "remote_addr", client.RemoteAddr())

	operator, err := s.login(client, ip)
	if err != nil {
		logger.Info("Console login failed", "remote_addr", client.RemoteAddr(), "error", err)
		return
	}

	logger.Always("Operator logged in", "operator", operator, "ip", ip)
	s.session(client, operator, antispam.NewTracker(antispam.ConfigFromYAML(
		s.cfg.Flood.Enabled, s.cfg.Flood.MaxCommands, s.cfg.Flood.WindowSeconds)))
	logger.Info("Operator logged out", "operator", operator)
}

func (s *Server) login(client Client, ip string) (string, error) {
	client.WriteLine("SkillsEngine operator console")

	if err := s.auth.Locked(ip); err != nil {
		var lockout *LockoutError
		if errors.As(err, &lockout) {
			client.WriteLine(fmt.Sprintf("Too many failed login attempts. Please wait %d seconds.",
				int(lockout.Remaining.Seconds())))
		}
		return "", err
	}

	client.Prompt("Operator: ")
	name, err := client.ReadLine()
	if err != nil {
		return "", errors.New("connection closed")
	}
	client.Prompt("Password: ")
	password, err := client.ReadLine()
	if err != nil {
		return "", errors.New("connection closed")
	}

	operator, err := s.auth.Authenticate(name, password, ip)
	if err != nil {
		var lockout *LockoutError
		if errors.As(err, &lockout) {
			client.WriteLine(fmt.Sprintf("Invalid operator name or password. Too many attempts - locked out for %d seconds.",
				int(lockout.Remaining.Seconds())))
		} else {
			client.WriteLine("Invalid operator name or password.")
		}
		return "", err
	}

	client.WriteLine(fmt.Sprintf("Welcome, %s. Type 'help' for commands.", operator))
	return operator, nil
}

// session reads commands until the client quits or disconnects.
// flood may be nil for an unthrottled session.
func (s *Server) session(client Client, operator string, flood *antispam.Tracker) {
	for {
		if err := client.Prompt("> "); err != nil {
			return
		}
		line, err := client.ReadLine()
		if err != nil {
			return
		}

		c := command.ParseCommand(line)
		if c.Name == "" {
			continue
		}
		if !c.IsQuit() {
			if res := flood.Check(); !res.Allowed {
				logger.Warning("Console command throttled", "operator", operator, "remote_addr", client.RemoteAddr())
				if err := client.WriteLine(fmt.Sprintf("%s Please wait %d seconds.", res.Reason, res.WaitSeconds)); err != nil {
					return
				}
				continue
			}
		}
		logger.Debug("Console command", "operator", operator, "command", c.Name, "args", c.Args)

		if out := s.runner.Run(c); out != "" {
			if err := client.WriteLine(out); err != nil {
				return
			}
		}
		if c.IsQuit() {
			return
		}
	}
}

func (s *Server) track(client Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.shutdown:
		client.Close()
		return false
	default:
	}
	s.clients[client] = struct{}{}
	return true
}

func (s *Server) untrack(client Client) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
	client.Close()
}

// Shutdown stops accepting sessions, disconnects open ones and waits for
// them to finish or for ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		close(s.shutdown)
		if s.listener != nil {
			s.listener.Close()
		}
		srv := s.http
		for client := range s.clients {
			client.WriteLine("Console shutting down.")
			client.Close()
		}
		s.mu.Unlock()

		if srv != nil {
			if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
				err = fmt.Errorf("failed to stop websocket console: %w", shutdownErr)
			}
		}
		s.limiter.Stop()

		done := make(chan struct{})
		go func() {
			s.sessions.Wait()
			close(done)
		}()
		select {
		case <-done:
			logger.Info("Console shutdown complete")
		case <-ctx.Done():
			err = errors.Join(err, ctx.Err())
		}
	})
	return err
}
