// Package docs registers the OpenAPI description served under /swagger.
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
        "/check-ins/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["check-ins"],
                "summary": "Check-in history",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page (20 per page)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.checkInsResponse"}}
                }
            }
        },
        "/check-ins/metrics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["check-ins"],
                "summary": "Check-in count",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.checkInMetricsResponse"}}
                }
            }
        },
        "/check-ins/{checkInId}/validate": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["check-ins"],
                "summary": "Validate a check-in",
                "parameters": [
                    {"type": "string", "description": "Check-in id", "name": "checkInId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "validation window expired", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "already validated", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/gyms": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["gyms"],
                "summary": "Register a gym",
                "parameters": [
                    {"description": "Gym details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createGymRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.gymResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/gyms/nearby": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["gyms"],
                "summary": "Gyms near a position",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "latitude", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "longitude", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.nearbyGymsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/gyms/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["gyms"],
                "summary": "Search gyms by title",
                "parameters": [
                    {"type": "string", "description": "Title fragment", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page (20 per page)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.gymsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/gyms/{gymId}/check-ins": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["check-ins"],
                "summary": "Check in at a gym",
                "parameters": [
                    {"type": "string", "description": "Gym id", "name": "gymId", "in": "path", "required": true},
                    {"description": "Current position", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createCheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.checkInEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "too far from the gym", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "already checked in today", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authenticate",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.authenticateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/token/refresh": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh the access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new member",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.authenticateRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.checkInEnvelope": {
            "type": "object",
            "properties": {
                "check_in": {"$ref": "#/definitions/handler.checkInResponse"}
            }
        },
        "handler.checkInMetricsResponse": {
            "type": "object",
            "properties": {
                "check_ins_count": {"type": "integer"}
            }
        },
        "handler.checkInResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "gym_id": {"type": "string"},
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "validated_at": {"type": "string"}
            }
        },
        "handler.checkInsResponse": {
            "type": "object",
            "properties": {
                "check_ins": {"type": "array", "items": {"$ref": "#/definitions/handler.checkInResponse"}}
            }
        },
        "handler.createCheckInRequest": {
            "type": "object",
            "required": ["latitude", "longitude"],
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "handler.createGymRequest": {
            "type": "object",
            "required": ["latitude", "longitude", "title"],
            "properties": {
                "description": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "phone": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.gymResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "phone": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.gymsResponse": {
            "type": "object",
            "properties": {
                "gyms": {"type": "array", "items": {"$ref": "#/definitions/handler.gymResponse"}}
            }
        },
        "handler.nearbyGymResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "distance_km": {"type": "number"},
                "id": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "phone": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.nearbyGymsResponse": {
            "type": "object",
            "properties": {
                "gyms": {"type": "array", "items": {"$ref": "#/definitions/handler.nearbyGymResponse"}}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
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
	Title:            "Gym Check-in API",
	Description:      "Members check in at nearby gyms; administrators register gyms and validate check-ins.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
