// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/ventas": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ventas"],
                "summary": "Listar ventas",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "YYYY-MM-DD", "name": "desde", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD (inclusive)", "name": "hasta", "in": "query"},
                    {"type": "string", "description": "COMPLETED | CANCELLED", "name": "estado", "in": "query"},
                    {"type": "string", "description": "UUID del cliente", "name": "cliente_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.VentaListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Venta atómica: descuenta stock, registra movimientos y factura turnos. Nada se escribe si una línea falla.",
                "tags": ["ventas"],
                "summary": "Registrar una nueva venta",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "description": "Carrito", "schema": {"$ref": "#/definitions/dto.ProcesarVentaRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.VentaProcesadaResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/ventas/{id}/anular": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Restaura stock y genera ajustes negativos para los ítems ya liquidados.",
                "tags": ["ventas"],
                "summary": "Anular venta",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "UUID de la venta", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "description": "Motivo", "schema": {"$ref": "#/definitions/dto.AnularVentaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.VentaAnuladaResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/liquidaciones": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Paga al dueño de la consignación las cantidades pendientes, de la venta más antigua a la más nueva.",
                "tags": ["liquidaciones"],
                "summary": "Crear liquidación",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CrearLiquidacionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.LiquidacionCreadaResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/turnos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["turnos"],
                "summary": "Reservar turno",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CrearTurnoRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TurnoResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/precio/{variante_id}": {
            "get": {
                "tags": ["productos"],
                "summary": "Consulta de precio",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "variante_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConsultaPrecioResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "dto.LoginRequest": {"type": "object"},
        "dto.LoginResponse": {"type": "object"},
        "dto.ProcesarVentaRequest": {"type": "object"},
        "dto.VentaProcesadaResponse": {"type": "object"},
        "dto.VentaListResponse": {"type": "object"},
        "dto.AnularVentaRequest": {"type": "object"},
        "dto.VentaAnuladaResponse": {"type": "object"},
        "dto.CrearLiquidacionRequest": {"type": "object"},
        "dto.LiquidacionCreadaResponse": {"type": "object"},
        "dto.CrearTurnoRequest": {"type": "object"},
        "dto.TurnoResponse": {"type": "object"},
        "dto.ConsultaPrecioResponse": {"type": "object"}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Shop POS API",
	Description:      "Ventas, inventario, consignación y turnos de peluquería.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
