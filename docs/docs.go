// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g internal/server/server.go
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
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/v1/deception/rating": {
            "post": {
                "description": "Percentage of interactions in which an agent passed as human, truncated toward zero.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Calculate deception rating",
                "parameters": [
                    {
                        "description": "Interaction counts",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.DeceptionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.DeceptionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/v1/humanity/verify": {
            "post": {
                "description": "Reports whether accuracy and average response time are consistent with a human player.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Verify humanity score",
                "parameters": [
                    {
                        "description": "Gameplay telemetry",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.HumanityRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HumanityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/v1/thresholds": {
            "get": {
                "description": "Returns the thresholds and arithmetic policies the engine was built with.",
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Active thresholds",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.ThresholdsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "server.DeceptionRequest": {
            "type": "object",
            "properties": {
                "times_fooled_human": {"type": "string", "example": "30"},
                "total_interactions": {"type": "string", "example": "200"}
            }
        },
        "server.DeceptionResponse": {
            "type": "object",
            "properties": {
                "rating": {"type": "string", "example": "15"}
            }
        },
        "server.HumanityChecks": {
            "type": "object",
            "properties": {
                "accuracy_above_threshold": {"type": "boolean"},
                "latency_above_floor": {"type": "boolean"},
                "latency_below_ceiling": {"type": "boolean"}
            }
        },
        "server.HumanityRequest": {
            "type": "object",
            "properties": {
                "avg_response_time_ms": {"type": "string", "example": "1500"},
                "correct_guesses": {"type": "string", "example": "61"},
                "total_matches": {"type": "string", "example": "100"}
            }
        },
        "server.HumanityResponse": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "string", "example": "61"},
                "checks": {"$ref": "#/definitions/server.HumanityChecks"},
                "human": {"type": "boolean"},
                "no_evidence": {"type": "boolean"}
            }
        },
        "server.ThresholdsResponse": {
            "type": "object",
            "properties": {
                "overflow_mode": {"type": "string", "example": "checked"},
                "ratio_mode": {"type": "string", "example": "preserve"},
                "thresholds": {"$ref": "#/definitions/verifier.Thresholds"}
            }
        },
        "verifier.Thresholds": {
            "type": "object",
            "properties": {
                "max_latency_ms": {"type": "integer"},
                "min_accuracy_percent": {"type": "integer"},
                "min_latency_ms": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Detective Verifier API",
	Description:      "Deterministic humanity and deception scoring over unsigned 256-bit integers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
