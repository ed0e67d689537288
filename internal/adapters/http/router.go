package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/adapters/signal"
	"github.com/La-Tva/test-visioconf-sub001/internal/app"
	"github.com/La-Tva/test-visioconf-sub001/internal/config"
	"github.com/La-Tva/test-visioconf-sub001/internal/directory"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, dir *directory.Memory, reg *app.Registry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("VisioconfSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	ctrl := signal.NewSignalWSController(coord, reg, dir, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	// Directory admin. The coordinator itself never writes here.
	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": dir.Users()})
	})

	api.POST("/users", func(c *gin.Context) {
		var req struct {
			Firstname string `json:"firstname"`
			Lastname  string `json:"lastname"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		user, err := domain.NewUser(req.Firstname, req.Lastname)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dir.AddUser(user)
		c.JSON(http.StatusCreated, user)
	})

	api.GET("/users/:id", func(c *gin.Context) {
		user, ok := dir.User(domain.UserID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_, online := reg.EndpointOf(user.ID)
		c.JSON(http.StatusOK, gin.H{"user": user, "online": online})
	})

	api.GET("/teams", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"teams": dir.Teams()})
	})

	api.POST("/teams", func(c *gin.Context) {
		var req struct {
			Name    string   `json:"name"`
			OwnerID string   `json:"ownerId"`
			Members []string `json:"memberIds"`
		}
		if err := c.BindJSON(&req); err != nil || req.Name == "" || req.OwnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		members := make([]domain.UserID, 0, len(req.Members))
		for _, id := range req.Members {
			members = append(members, domain.UserID(id))
		}
		team, err := dir.CreateTeam(domain.TeamName(req.Name), domain.UserID(req.OwnerID), members)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, team)
	})

	api.GET("/teams/:id", func(c *gin.Context) {
		team, ok := dir.Team(domain.TeamID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		c.JSON(http.StatusOK, team)
	})

	api.PUT("/teams/:id/owner", func(c *gin.Context) {
		var req struct {
			OwnerID string `json:"ownerId"`
		}
		if err := c.BindJSON(&req); err != nil || req.OwnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if err := dir.TransferOwnership(domain.TeamID(c.Param("id")), domain.UserID(req.OwnerID)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.DELETE("/teams/:id", func(c *gin.Context) {
		dir.DeleteTeam(domain.TeamID(c.Param("id")))
		c.Status(http.StatusNoContent)
	})

	api.GET("/calls/active", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": coord.ActiveCallCount()})
	})

	api.GET("/teams/:id/call", func(c *gin.Context) {
		id := domain.TeamID(c.Param("id"))
		parts := coord.TeamCallSnapshot(id)
		c.JSON(http.StatusOK, gin.H{
			"teamId":       id,
			"active":       len(parts) > 0,
			"participants": parts,
		})
	})

	return r
}
