package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Scheduler API",
        "description": "Timetable and exam-schedule conflict detection service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Recurring weekly timetable"},
        {"name": "Exams", "description": "Exam lifecycle and publication"},
        {"name": "Exam Schedule", "description": "Dated exam schedule entries"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": ["Timetable"],
                "summary": "The shared period grid",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/timetable/entries": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable entries",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Commit a timetable entry",
                "responses": {
                    "201": {"$ref": "#/responses/Envelope"},
                    "409": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/timetable/entries/validate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Check a candidate entry for conflicts",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/timetable/copy": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Copy one class week onto another class",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/exams": {
            "get": {
                "tags": ["Exams"],
                "summary": "List exams",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            },
            "post": {
                "tags": ["Exams"],
                "summary": "Create an exam",
                "responses": {
                    "201": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/exams/{id}/publish": {
            "post": {
                "tags": ["Exams"],
                "summary": "Publish an exam schedule",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/exam-entries": {
            "post": {
                "tags": ["Exam Schedule"],
                "summary": "Commit an exam schedule entry",
                "responses": {
                    "201": {"$ref": "#/responses/Envelope"},
                    "409": {"$ref": "#/responses/Envelope"}
                }
            }
        },
        "/exam-entries/validate": {
            "post": {
                "tags": ["Exam Schedule"],
                "summary": "Check a candidate exam entry for conflicts",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"}
                }
            }
        }
    },
    "responses": {
        "Envelope": {
            "description": "Common response envelope",
            "schema": {"$ref": "#/definitions/ResponseEnvelope"}
        }
    },
    "definitions": {
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
