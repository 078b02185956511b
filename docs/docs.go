// Package docs holds the OpenAPI description served under /docs.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Verify credentials and return a signed bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoginResponse"}},
                    "400": {"description": "Malformed JSON or missing fields", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/save-intake": {
            "post": {
                "description": "Validate and store an intake questionnaire, then mail the admin and the client",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["intake"],
                "summary": "Submit intake",
                "parameters": [
                    {
                        "description": "Intake form (id and created_at are ignored)",
                        "name": "intake",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.Intake"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SaveIntakeResponse"}},
                    "400": {"description": "Malformed JSON or validation errors", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}
                }
            }
        },
        "/intakes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List intakes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.IntakeListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/intakes/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get intake",
                "parameters": [
                    {"type": "integer", "description": "Intake ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.IntakeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete intake",
                "parameters": [
                    {"type": "integer", "description": "Intake ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DeleteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.DeleteResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean", "example": true}}
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Ongeldige inloggegevens"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "ok"}}
        },
        "handler.IntakeListResponse": {
            "type": "object",
            "properties": {
                "intakes": {"type": "array", "items": {"$ref": "#/definitions/model.Intake"}},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.IntakeResponse": {
            "type": "object",
            "properties": {
                "intake": {"$ref": "#/definitions/model.Intake"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "admin@noahform.be"},
                "password": {"type": "string", "example": "secret"}
            }
        },
        "handler.LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "token": {"type": "string"}
            }
        },
        "handler.MeResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/model.Identity"}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string", "example": "Validatie fouten"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.SaveIntakeResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Intake succesvol opgeslagen"},
                "redirect_url": {"type": "string"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "model.Identity": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "model.Intake": {
            "type": "object",
            "properties": {
                "achternaam": {"type": "string"},
                "actie": {"type": "string"},
                "beroep": {"type": "string"},
                "blessures": {"type": "string"},
                "created_at": {"type": "string"},
                "doelen": {"type": "string"},
                "email": {"type": "string"},
                "gewicht": {"type": "string"},
                "id": {"type": "integer"},
                "importance": {"type": "integer"},
                "leeftijd": {"type": "integer"},
                "lengte": {"type": "string"},
                "startNu": {"type": "string"},
                "struggle": {"type": "string"},
                "telefoon": {"type": "string"},
                "trainFrequentie": {"type": "string"},
                "uiteten": {"type": "string"},
                "voedingAanpak": {"type": "string"},
                "voornaam": {"type": "string"}
            }
        }
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
	Title:            "Intake API",
	Description:      "Login, intake submission and admin access for the intake backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
