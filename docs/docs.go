// Package docs registra el documento OpenAPI que sirve /swagger.
// Mantener en sync con las anotaciones de cmd/api y de los handlers.
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
        "/contracts/market/handle": {
            "post": {
                "description": "` + "`" + `buy_food {}` + "`" + ` con funds en la moneda aceptada. Acredita total_raised y emite un efecto mint de funds*exchange_rate al caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Comprar comida",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, dirección del caller", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "integer", "description": "Block time (unix segundos)", "name": "X-Block-Time", "in": "header"},
                    {"description": "msg: {buy_food:{}}, funds: [{denom, amount}]", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "invalid denomination / empty deposit / overflow", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "contrato no instanciado", "schema": {"type": "string"}}
                }
            }
        },
        "/contracts/market/init": {
            "post": {
                "description": "Guarda el token de comida ya deployado, el exchange_rate y la moneda aceptada (por defecto uscrt). El admin por defecto es el caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Instanciar el contrato Market",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, dirección del caller", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "msg: {token_contract:{address,code_hash}, exchange_rate, accepted_denom?, admin?, viewing_key?}", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "msg inválido / ya instanciado", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/contracts/market/query": {
            "post": {
                "description": "Variantes: ` + "`" + `config {}` + "`" + `, ` + "`" + `total_raised {}` + "`" + `, ` + "`" + `deposits {depositor, page?, page_size?}` + "`" + `.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Consultar el contrato Market",
                "parameters": [
                    {"description": "msg: config | total_raised | deposits", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "msg inválido", "schema": {"type": "string"}},
                    "404": {"description": "contrato no instanciado", "schema": {"type": "string"}}
                }
            }
        },
        "/contracts/pet/handle": {
            "post": {
                "description": "Variantes: ` + "`" + `create_pet {name, allowed_feed_timespan, total_saturation_time}` + "`" + ` crea una mascota del caller; ` + "`" + `receive {sender, from, amount, msg}` + "`" + ` sólo lo puede llamar el token aceptado y alimenta la mascota indicada en msg.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pet"],
                "summary": "Ejecutar un mensaje del contrato Pet",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, dirección del caller", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "integer", "description": "Block time (unix segundos)", "name": "X-Block-Time", "in": "header"},
                    {"description": "msg: create_pet | receive", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "msg inválido / not feeding time", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "caller no es el token aceptado", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "409": {"description": "pet already dead", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/contracts/pet/init": {
            "post": {
                "description": "Guarda el token aceptado (comida) y emite los efectos register_receive y set_viewing_key contra ese token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pet"],
                "summary": "Instanciar el contrato Pet",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, dirección del caller", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "integer", "description": "Block time (unix segundos); por defecto el reloj del host", "name": "X-Block-Time", "in": "header"},
                    {"description": "msg: {accepted_token:{address,code_hash}, admin?, viewing_key}", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "invalid json / msg inválido / ya instanciado", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/contracts/pet/query": {
            "post": {
                "description": "Variantes: ` + "`" + `last_fed {id, owner}` + "`" + `, ` + "`" + `pet {id, owner}` + "`" + `, ` + "`" + `pets {owner, page?, page_size?}` + "`" + `, ` + "`" + `accepted_token {}` + "`" + `. No modifica estado.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pet"],
                "summary": "Consultar el contrato Pet",
                "parameters": [
                    {"type": "integer", "description": "Block time con el que se clasifica alive/dead", "name": "X-Block-Time", "in": "header"},
                    {"description": "msg: last_fed | pet | pets | accepted_token", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/host.CallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/host.CallResponse"}},
                    "400": {"description": "msg inválido", "schema": {"type": "string"}},
                    "404": {"description": "pet not found / contrato no instanciado", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "host.CallRequest": {
            "type": "object",
            "properties": {
                "funds": {"type": "array", "items": {"$ref": "#/definitions/host.Coin"}},
                "msg": {"type": "object"}
            }
        },
        "host.CallResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "effects": {"type": "array", "items": {"$ref": "#/definitions/host.Effect"}}
            }
        },
        "host.Coin": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "denom": {"type": "string"}
            }
        },
        "host.ContractRef": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "code_hash": {"type": "string"}
            }
        },
        "host.Effect": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "code_hash": {"type": "string"},
                "kind": {"type": "string"},
                "recipient": {"type": "string"},
                "target": {"$ref": "#/definitions/host.ContractRef"},
                "viewing_key": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo es la metadata general (ver @title y @description en cmd/api).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "pet-market-engine API",
	Description:      "Host HTTP de los contratos Market (venta de comida) y Pet (mascotas con saturación).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
