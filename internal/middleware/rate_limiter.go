package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
)

// ventanaFija counts requests per key inside fixed windows.
type ventanaFija struct {
	mu          sync.Mutex
	limite      int
	ventana     time.Duration
	entradas    map[string]*ventanaEntrada
	ultimaPurga time.Time
}

type ventanaEntrada struct {
	count     int
	windowEnd time.Time
}

func nuevaVentana(limite int, ventana time.Duration) *ventanaFija {
	return &ventanaFija{limite: limite, ventana: ventana, entradas: make(map[string]*ventanaEntrada)}
}

// permitir registers one hit for key and reports whether it is within the limit.
// Expired keys are purged once per window.
func (v *ventanaFija) permitir(key string, now time.Time) (bool, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if now.Sub(v.ultimaPurga) > v.ventana {
		for k, e := range v.entradas {
			if now.After(e.windowEnd) {
				delete(v.entradas, k)
			}
		}
		v.ultimaPurga = now
	}

	e, ok := v.entradas[key]
	if !ok || now.After(e.windowEnd) {
		e = &ventanaEntrada{windowEnd: now.Add(v.ventana)}
		v.entradas[key] = e
	}
	e.count++
	return e.count <= v.limite, e.windowEnd
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limitar(nuevaVentana(20, time.Minute), "Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitar(nuevaVentana(limit, window), "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

func limitar(v *ventanaFija, mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := v.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}
