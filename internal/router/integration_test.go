//go:build integration

package router_test

// Runs the full stack against real Postgres and Redis containers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/router"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/worker"
)

func nuevaAppReal(t *testing.T) (*app, string) {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("petshop_test"),
		tcPostgres.WithUsername("petshop"),
		tcPostgres.WithPassword("petshop"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	storage := t.TempDir()
	cfg := &config.Config{
		Env:                   "test",
		JWTSecret:             "integration",
		JWTExpirationHours:    1,
		TxTimeoutSeconds:      20,
		Timezone:              "UTC",
		SettlementLockSeconds: 10,
		PriceCacheTTLSeconds:  60,
		ReceiptStoragePath:    storage,
		NombreComercio:        "Pet Shop",
	}

	db, err := infra.NewDatabase(pgURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave-admin"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUsuarioRepository(db).Create(ctx, &model.Usuario{
		Username: "duena", Nombre: "Dueña", PasswordHash: string(hash), Rol: model.RolAdmin, Activo: true,
	}))

	reg := prometheus.NewRegistry()
	cola := worker.NewRedisCola(rdb)
	dispatcher := worker.NewDispatcher(cola)
	pool := worker.NewPool(cola, map[string]worker.Procesador{
		worker.QueueLiquidacion: worker.NewLiquidacionWorker(repository.NewLiquidacionRepository(db), nil, storage, cfg.NombreComercio),
	}, metrics.NewJobs(reg))
	poolCtx, cancel := context.WithCancel(ctx)
	pool.Start(poolCtx, 1)
	t.Cleanup(func() { cancel(); pool.Wait() })

	a := &app{t: t, r: router.New(cfg, db, rdb, reg, dispatcher), enc: &encoladorMem{}}
	a.token = nuevaSesion(t, a)
	return a, storage
}

func TestIntegracion_VentasConcurrentesNoSobrevenden(t *testing.T) {
	a, storage := nuevaAppReal(t)

	var prov dto.ProveedorResponse
	a.esperar(a.pedir(http.MethodPost, "/v1/proveedores", map[string]string{"nombre": "Consignataria"}), http.StatusCreated, &prov)
	var prod dto.ProductoResponse
	a.esperar(a.pedir(http.MethodPost, "/v1/productos", map[string]interface{}{
		"nombre": "Hueso de juguete", "proveedor_id": prov.ID, "unidad_medida": "UNIT",
		"variantes": []map[string]interface{}{{"precio_costo": "400", "precio_venta": "700", "stock_inicial": 5}},
	}), http.StatusCreated, &prod)
	varianteID := prod.Variantes[0].ID

	var ok, rechazadas int32
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := a.pedir(http.MethodPost, "/v1/ventas", map[string]interface{}{
				"metodo_pago": "CASH",
				"items":       []map[string]interface{}{{"id": varianteID, "tipo": "PRODUCT", "cantidad": 1, "precio": "700"}},
			})
			switch w.Code {
			case http.StatusCreated:
				atomic.AddInt32(&ok, 1)
			case http.StatusBadRequest, http.StatusConflict:
				atomic.AddInt32(&rechazadas, 1)
			default:
				t.Errorf("status inesperado %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, ok)
	assert.EqualValues(t, 7, rechazadas)

	var ficha dto.ProductoResponse
	a.esperar(a.pedir(http.MethodGet, "/v1/productos/"+prod.ID, nil), http.StatusOK, &ficha)
	assert.Equal(t, 0, ficha.Variantes[0].Stock)

	// Two settlements racing for the same owed lines: only one pays them.
	var pendientes dto.PendientesResponse
	a.esperar(a.pedir(http.MethodGet, "/v1/proveedores/"+prov.ID+"/pendientes", nil), http.StatusOK, &pendientes)
	require.Len(t, pendientes.Items, 5)
	grupo := map[string]interface{}{"proveedor_id": prov.ID, "grupos": []map[string]interface{}{{"variante_id": varianteID, "cantidad": 5}}}

	codes := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- a.pedir(http.MethodPost, "/v1/liquidaciones/agrupada", grupo).Code
		}()
	}
	wg.Wait()
	close(codes)
	var creadas int
	for c := range codes {
		if c == http.StatusCreated {
			creadas++
		}
	}
	assert.Equal(t, 1, creadas)

	// The receipt worker renders the settlement asynchronously.
	require.Eventually(t, func() bool {
		matches, _ := filepath.Glob(filepath.Join(storage, "liquidacion_*.pdf"))
		return len(matches) == 1
	}, 15*time.Second, 200*time.Millisecond)
	matches, _ := filepath.Glob(filepath.Join(storage, "liquidacion_*.xlsx"))
	require.Len(t, matches, 1)
	info, err := os.Stat(matches[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestIntegracion_TurnosSuperpuestos(t *testing.T) {
	a, _ := nuevaAppReal(t)

	var cli dto.ClienteResponse
	a.esperar(a.pedir(http.MethodPost, "/v1/clientes", map[string]string{"nombre": "Marta"}), http.StatusCreated, &cli)
	var masc dto.MascotaResponse
	a.esperar(a.pedir(http.MethodPost, "/v1/clientes/"+cli.ID+"/mascotas", map[string]string{"nombre": "Toby"}), http.StatusCreated, &masc)

	turno := map[string]interface{}{"mascota_id": masc.ID, "fecha": "2026-05-04", "hora": "10:00", "duracion_minutos": 60}
	codes := make(chan int, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- a.pedir(http.MethodPost, "/v1/turnos", turno).Code
		}()
	}
	wg.Wait()
	close(codes)
	creados := 0
	for c := range codes {
		if c == http.StatusCreated {
			creados++
		} else {
			assert.Contains(t, []int{http.StatusBadRequest, http.StatusConflict}, c)
		}
	}
	assert.Equal(t, 1, creados)

	var lista []dto.TurnoResponse
	a.esperar(a.pedir(http.MethodGet, "/v1/turnos?desde=2026-05-04", nil), http.StatusOK, &lista)
	require.Len(t, lista, 1)
	raw, _ := json.Marshal(lista[0])
	assert.Contains(t, string(raw), `"estado":"PENDING"`)
}
