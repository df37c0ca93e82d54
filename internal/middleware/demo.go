package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
)

// MensajeModoDemo is the fixed rejection returned for writes in demo mode.
const MensajeModoDemo = "Modo demo: las operaciones de escritura están deshabilitadas"

// ModoDemo blocks every mutating request when enabled. Reads pass through.
func ModoDemo(activo bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !activo {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			log.Debug().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Msg("escritura bloqueada por modo demo")
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(MensajeModoDemo))
			return
		}
		c.Next()
	}
}
