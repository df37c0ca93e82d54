package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/money"
)

// ItemPendiente is a sale line with units still owed to its owner.
type ItemPendiente struct {
	VentaItemID  uuid.UUID
	VentaID      uuid.UUID
	VarianteID   uuid.UUID
	Descripcion  string
	FechaVenta   time.Time
	Pendiente    int
	PrecioCosto  decimal.Decimal
	UnidadMedida model.UnidadMedida
}

// Monto is what paying the whole pending quantity costs.
func (p ItemPendiente) Monto() decimal.Decimal {
	return money.Subtotal(p.Pendiente, p.UnidadMedida, p.PrecioCosto)
}

// GrupoPendiente aggregates the pending lines of one variant.
type GrupoPendiente struct {
	VarianteID  uuid.UUID
	Descripcion string
	Pendiente   int
	Monto       decimal.Decimal
	Items       []ItemPendiente
}

func itemPendienteDesde(it *model.VentaItem) ItemPendiente {
	p := ItemPendiente{
		VentaItemID: it.ID,
		VentaID:     it.VentaID,
		Descripcion: it.Descripcion,
		Pendiente:   it.Pendiente(),
		PrecioCosto: it.PrecioCosto,
	}
	if it.VarianteID != nil {
		p.VarianteID = *it.VarianteID
	}
	if it.Venta != nil {
		p.FechaVenta = it.Venta.CreatedAt
	}
	p.UnidadMedida = model.UnidadUnidad
	if it.Variante != nil {
		p.UnidadMedida = it.Variante.UnidadMedida()
	}
	return p
}

// ordenarPorAntiguedad sorts oldest sale first; ties keep input order.
func ordenarPorAntiguedad(items []ItemPendiente) []ItemPendiente {
	out := make([]ItemPendiente, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FechaVenta.Before(out[j].FechaVenta)
	})
	return out
}

// AsignarCantidad spreads cantidad units over pendientes, consuming the
// oldest sale first, and returns one SALE selection per touched line.
func AsignarCantidad(pendientes []ItemPendiente, cantidad int) ([]dto.SeleccionItem, error) {
	if cantidad <= 0 {
		return nil, apierror.Validacion("La cantidad a liquidar debe ser mayor a cero.")
	}
	disponible := 0
	for _, p := range pendientes {
		disponible += p.Pendiente
	}
	if cantidad > disponible {
		return nil, apierror.Negocio("Solo se deben %d unidades.", disponible)
	}

	restante := cantidad
	seleccion := make([]dto.SeleccionItem, 0, len(pendientes))
	for _, p := range ordenarPorAntiguedad(pendientes) {
		if restante == 0 {
			break
		}
		if p.Pendiente <= 0 {
			continue
		}
		q := min(p.Pendiente, restante)
		seleccion = append(seleccion, dto.SeleccionItem{
			ID:       p.VentaItemID.String(),
			Tipo:     tipoSeleccionVenta,
			Cantidad: &q,
		})
		restante -= q
	}
	return seleccion, nil
}

// AgruparPendientes groups pending lines by variant, in order of first sale.
func AgruparPendientes(pendientes []ItemPendiente) []GrupoPendiente {
	idx := make(map[uuid.UUID]int)
	var grupos []GrupoPendiente
	for _, p := range ordenarPorAntiguedad(pendientes) {
		i, ok := idx[p.VarianteID]
		if !ok {
			i = len(grupos)
			idx[p.VarianteID] = i
			grupos = append(grupos, GrupoPendiente{
				VarianteID:  p.VarianteID,
				Descripcion: p.Descripcion,
				Monto:       decimal.Zero,
			})
		}
		g := &grupos[i]
		g.Pendiente += p.Pendiente
		g.Monto = g.Monto.Add(p.Monto())
		g.Items = append(g.Items, p)
	}
	return grupos
}
