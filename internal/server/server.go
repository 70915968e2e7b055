package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/samtaute/fotoscapes-widget/internal/engine"
	"github.com/samtaute/fotoscapes-widget/internal/feed"
	"github.com/samtaute/fotoscapes-widget/internal/model"
	"github.com/samtaute/fotoscapes-widget/internal/user"
)

// Server 代表 HTTP API 服务器
type Server struct {
	router       *gin.Engine
	userProvider user.Provider
	engine       *engine.Engine
	fetcher      *feed.Fetcher
	interests    model.DefaultInterestTable // 信息流未下发兴趣表时的本地兜底
	metrics      http.Handler
	log          *slog.Logger
}

// NewServer 创建新的 HTTP 服务器
// fetcher 可以为 nil（离线模式），此时 choose 必须随请求内联目录；
// metrics 可以为 nil，此时不暴露 /metrics 路由。
func NewServer(up user.Provider, eng *engine.Engine, fetcher *feed.Fetcher, interests model.DefaultInterestTable, metrics http.Handler, log *slog.Logger) *Server {
	s := &Server{
		router:       gin.Default(),
		userProvider: up,
		engine:       eng,
		fetcher:      fetcher,
		interests:    interests,
		metrics:      metrics,
		log:          log,
	}
	s.router.Use(s.corsMiddleware())
	s.setupRoutes()
	return s
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler 返回底层的 http.Handler，用于测试
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}

	v1 := s.router.Group("/api/v1")

	// 中间件：Token 鉴权
	v1.Use(s.authMiddleware())

	v1.POST("/choose", s.handleChoose)
	v1.POST("/click", s.handleClick)
	v1.GET("/weights", s.handleWeights)
}

// authMiddleware 鉴权中间件
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		u, err := s.userProvider.GetUserByToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user", u)
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) (*model.User, bool) {
	uVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return uVal.(*model.User), true
}

// ChooseRequest choose 接口的请求体
// Catalog 缺省时从信息流服务拉取当日目录
type ChooseRequest struct {
	Overrides *engine.Overrides `json:"overrides"`
	Catalog   json.RawMessage   `json:"catalog"`
}

// handleChoose 处理展示列表请求
// POST /api/v1/choose
func (s *Server) handleChoose(c *gin.Context) {
	u, ok := s.currentUser(c)
	if !ok {
		return
	}

	// 空请求体等价于"全部默认、目录取自信息流"
	var req ChooseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	catalog := []byte(req.Catalog)
	interests := s.interests

	if len(catalog) == 0 {
		if s.fetcher == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no catalog in request and no feed endpoint configured"})
			return
		}
		daily, err := s.fetcher.Fetch(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("failed to fetch daily feed: %v", err)})
			return
		}
		catalog = daily.Catalog
		if len(daily.Interests) > 0 {
			interests = daily.Interests
		}
	}

	items, err := s.engine.Choose(c.Request.Context(), u.ID, catalog, req.Overrides, interests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("choose failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// ClickRequest click 接口的请求体
type ClickRequest struct {
	ItemID    string   `json:"item_id" binding:"required"`
	Interests []string `json:"interests"`
}

// handleClick 处理点击上报请求
// POST /api/v1/click
func (s *Server) handleClick(c *gin.Context) {
	u, ok := s.currentUser(c)
	if !ok {
		return
	}

	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	weights, err := s.engine.Click(c.Request.Context(), u.ID, req.ItemID, req.Interests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("click failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weights": weights,
	})
}

// handleWeights 返回当前用户的权重表
// GET /api/v1/weights
func (s *Server) handleWeights(c *gin.Context) {
	u, ok := s.currentUser(c)
	if !ok {
		return
	}

	weights, err := s.engine.Weights(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to load weights: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weights": weights,
	})
}
