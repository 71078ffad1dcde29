// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Student login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Revoke the current token",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Current student profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Update the current student profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/hostels": {
            "get": {
                "tags": ["Hostels"],
                "summary": "List active hostels",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "area", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "boolean", "name": "available_rooms", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/hostels/{id}": {
            "get": {
                "tags": ["Hostels"],
                "summary": "Get a hostel",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/hostels/book": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Hostels"],
                "summary": "Request a hostel allotment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/pgs": {
            "get": {
                "tags": ["PGs"],
                "summary": "List active PGs",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "area", "in": "query"},
                    {"type": "string", "name": "gender", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "boolean", "name": "available_spots", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/pgs/{id}": {
            "get": {
                "tags": ["PGs"],
                "summary": "Get a PG",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/pgs/book": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["PGs"],
                "summary": "Request a PG booking",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/bookings/my": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Bookings"],
                "summary": "Bookings of the current student",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Administrator login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "Dashboard statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/admin/export/bookings.xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "Export bookings as a spreadsheet",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Operation completed successfully"},
                "data": {},
                "count": {"type": "integer", "example": 3},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string", "example": "2025-04-23T12:01:05.123Z"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "RES_001"},
                "message": {"type": "string", "example": "Hostel not found"},
                "field": {"type": "string", "example": "property_id"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "database": {"type": "string", "example": "connected"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["student_id", "name", "email", "password"],
            "properties": {
                "student_id": {"type": "string", "example": "2024017"},
                "name": {"type": "string", "example": "Asha Verma"},
                "email": {"type": "string", "example": "asha@example.com"},
                "password": {"type": "string", "example": "secret123"},
                "phone": {"type": "string", "example": "9876543210"},
                "course": {"type": "string", "example": "B.Tech CSE"},
                "academic_year": {"type": "string", "example": "2"},
                "gender": {"type": "string", "example": "Female"},
                "university": {"type": "string"},
                "address": {"type": "string"},
                "emergency_contact": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["student_id", "password"],
            "properties": {
                "student_id": {"type": "string", "example": "2024001"},
                "password": {"type": "string", "example": "student123"}
            }
        },
        "dto.AdminLoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "password": {"type": "string", "example": "admin123"}
            }
        },
        "dto.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "course": {"type": "string"},
                "academic_year": {"type": "string"},
                "gender": {"type": "string"},
                "university": {"type": "string"},
                "address": {"type": "string"},
                "emergency_contact": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "HostelPG API",
	Description:      "Student accommodation API: hostel and PG listings, bookings, allotments and administration",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
