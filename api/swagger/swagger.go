package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentora Schedule API",
        "description": "Weekly course schedule with slot-grid conflict checking",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Courses", "description": "Courses and their weekly time blocks"},
        {"name": "Timetable", "description": "Slot grid served to clients"}
    ],
    "paths": {
        "/timetable/slots": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Describe the slot grid",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SlotTableEnvelope"}}
                }
            }
        },
        "/users/{userId}/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List a user's courses with their weekly blocks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseListEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete every course of a user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Cleared"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/courses/blocks": {
            "get": {
                "tags": ["Courses"],
                "summary": "List one day's blocks ordered by start",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true},
                    {"name": "day", "in": "query", "type": "string", "required": true, "enum": ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/availability": {
            "get": {
                "tags": ["Courses"],
                "summary": "Busy intervals for every day of the week",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course with its weekly blocks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CourseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Block conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "put": {
                "tags": ["Courses"],
                "summary": "Replace a course and its whole block set",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseEnvelope"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Block conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TimeBlock": {
            "type": "object",
            "properties": {
                "block_id": {"type": "string"},
                "day": {"type": "string"},
                "start": {"type": "string", "example": "08:00"},
                "end": {"type": "string", "example": "10:00"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "instructor": {"type": "string"},
                "location": {"type": "string"},
                "color": {"type": "string", "example": "#3B82F6"},
                "blocks": {"type": "array", "items": {"$ref": "#/definitions/TimeBlock"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "BlockInput": {
            "type": "object",
            "required": ["day", "start", "end"],
            "properties": {
                "day": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "CourseInput": {
            "type": "object",
            "required": ["user_id", "name"],
            "properties": {
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "instructor": {"type": "string"},
                "location": {"type": "string"},
                "color": {"type": "string"},
                "blocks": {"type": "array", "items": {"$ref": "#/definitions/BlockInput"}}
            }
        },
        "SlotTable": {
            "type": "object",
            "properties": {
                "start_hour": {"type": "integer"},
                "end_hour": {"type": "integer"},
                "slot_minutes": {"type": "integer"},
                "total_slots": {"type": "integer"},
                "days": {"type": "array", "items": {"type": "string"}},
                "slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "CourseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Course"}
            }
        },
        "CourseListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "meta": {"type": "object"}
            }
        },
        "SlotTableEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/SlotTable"}
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
