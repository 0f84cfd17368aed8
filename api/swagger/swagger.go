package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Via Alta Group Generation API",
        "description": "Course-section generation engine for the enrollment portal",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Professors", "description": "Professor directory"},
        {"name": "Availability", "description": "Weekly availability grids"},
        {"name": "Groups", "description": "Course-section groups"},
        {"name": "Generation", "description": "Batch group generation"},
        {"name": "Exports", "description": "Rendered schedules"},
        {"name": "System", "description": "Observability"}
    ],
    "paths": {
        "/professors": {
            "get": {
                "tags": ["Professors"],
                "summary": "List professors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professors/{id}": {
            "get": {
                "tags": ["Professors"],
                "summary": "Get professor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professors/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get a professor's availability grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace a professor's availability grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/professors/{id}/schedule/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a professor's weekly schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "cycleId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Rendered schedule file"}
                }
            }
        },
        "/groups": {
            "get": {
                "tags": ["Groups"],
                "summary": "List groups in a cycle",
                "parameters": [
                    {"name": "cycleId", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Groups"],
                "summary": "Create group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No usable availability", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/groups/{id}": {
            "get": {
                "tags": ["Groups"],
                "summary": "Get group",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Groups"],
                "summary": "Update group",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGroupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/next-group-id": {
            "get": {
                "tags": ["Groups"],
                "summary": "Preview the next group id",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generate-groups": {
            "post": {
                "tags": ["Generation"],
                "summary": "Generate groups in batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateGroupsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-item results or run summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/system/stats": {
            "get": {
                "tags": ["System"],
                "summary": "Engine activity counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ReplaceAvailabilityRequest": {
            "type": "object",
            "properties": {
                "professorId": {"type": "integer"},
                "availability": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "preferences": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "CreateGroupRequest": {
            "type": "object",
            "required": ["subjectId", "professorId"],
            "properties": {
                "subjectId": {"type": "integer"},
                "professorId": {"type": "integer"},
                "classroomId": {"type": "integer"},
                "cycleId": {"type": "integer"},
                "groupId": {"type": "integer"}
            }
        },
        "UpdateGroupRequest": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "integer"},
                "professorId": {"type": "integer"},
                "classroomId": {"type": "integer"},
                "cycleId": {"type": "integer"}
            }
        },
        "GroupParams": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "integer"},
                "professorId": {"type": "integer"},
                "classroomId": {"type": "integer"},
                "cycleId": {"type": "integer"},
                "groupId": {"type": "integer"}
            }
        },
        "GenerateGroupsRequest": {
            "type": "object",
            "properties": {
                "mode": {"type": "string", "enum": ["explicit", "all-professors"]},
                "paramsList": {"type": "array", "items": {"$ref": "#/definitions/GroupParams"}},
                "idSalon": {"type": "integer"},
                "idCiclo": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
