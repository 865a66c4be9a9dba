package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Jadwal API",
        "description": "Course scheduling engine: conflict checks, meeting calendars, fair student distribution and bulk generation.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Jadwal", "description": "Course section scheduling"},
        {"name": "Ops", "description": "Probes and metrics"}
    ],
    "paths": {
        "/jadwal": {
            "post": {
                "tags": ["Jadwal"],
                "summary": "Create a jadwal and its meeting calendar",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/JadwalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Committed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflicts with the existing schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/check": {
            "post": {
                "tags": ["Jadwal"],
                "summary": "Check a proposed jadwal for conflicts",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/JadwalRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflict report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/generate": {
            "post": {
                "tags": ["Jadwal"],
                "summary": "Generate jadwal for every unscheduled course of a term",
                "parameters": [
                    {"in": "query", "name": "async", "type": "boolean", "required": false},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateAllRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generation summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already running for the term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/generate/jobs/{id}": {
            "get": {
                "tags": ["Jadwal"],
                "summary": "Get an async generation job",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Job state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/distribution": {
            "get": {
                "tags": ["Jadwal"],
                "summary": "Plan the fair student distribution of a term",
                "parameters": [
                    {"in": "query", "name": "semester", "type": "string", "enum": ["GANJIL", "GENAP"], "required": true},
                    {"in": "query", "name": "academicYear", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Distribution plan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/meeting-dates": {
            "get": {
                "tags": ["Jadwal"],
                "summary": "Generate the meeting calendar of a weekday in a term",
                "parameters": [
                    {"in": "query", "name": "day", "type": "string", "enum": ["SENIN", "SELASA", "RABU", "KAMIS", "JUMAT", "SABTU"], "required": true},
                    {"in": "query", "name": "semester", "type": "string", "enum": ["GANJIL", "GENAP"], "required": true},
                    {"in": "query", "name": "academicYear", "type": "string", "required": true},
                    {"in": "query", "name": "count", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "Meeting dates", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jadwal/export": {
            "get": {
                "tags": ["Jadwal"],
                "summary": "Download the committed schedule of a term",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "query", "name": "semester", "type": "string", "enum": ["GANJIL", "GENAP"], "required": true},
                    {"in": "query", "name": "academicYear", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"], "required": false}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        }
    },
    "definitions": {
        "JadwalRequest": {
            "type": "object",
            "required": ["courseId", "roomId", "shiftId", "day", "lecturerIds", "semester", "academicYear"],
            "properties": {
                "courseId": {"type": "string"},
                "roomId": {"type": "string"},
                "shiftId": {"type": "string"},
                "day": {"type": "string"},
                "class": {"type": "string"},
                "lecturerIds": {"type": "array", "items": {"type": "string"}},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "semester": {"type": "string", "enum": ["GANJIL", "GENAP"]},
                "academicYear": {"type": "string"},
                "override": {"type": "boolean"}
            }
        },
        "GenerateAllRequest": {
            "type": "object",
            "required": ["semester", "academicYear"],
            "properties": {
                "semester": {"type": "string", "enum": ["GANJIL", "GENAP"]},
                "academicYear": {"type": "string"},
                "preferredDay": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
