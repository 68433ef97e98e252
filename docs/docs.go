// Package docs holds the Swagger document served at /swagger. Regenerate it with swag init -g cmd/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/pack-advice",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/advice": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns non-invalidated advice, newest first. Outcome \"pending\" selects advice without recorded feedback.",
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "List packaging advice",
                "parameters": [
                    {"type": "string", "description": "full_match, partial_match or no_match", "name": "confidence", "in": "query"},
                    {"type": "string", "description": "followed, modified, ignored, no_advice or pending", "name": "outcome", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Advice log page"},
                    "400": {"description": "Bad request - invalid paging"},
                    "500": {"description": "Internal server error"}
                }
            }
        },
        "/api/advice/calculate": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Classifies the order lines into shipping units, matches them against container compartment rules and returns the cheapest box set. An unchanged order returns the stored advice.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "Calculate packaging advice",
                "parameters": [
                    {"type": "string", "description": "Idempotency key for request deduplication", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Order contents", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateAdviceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Advice"},
                    "400": {"description": "Bad request - invalid input"},
                    "401": {"description": "Unauthorized - missing or invalid API key"},
                    "429": {"description": "Too many requests - rate limit exceeded"},
                    "500": {"description": "Internal server error"},
                    "503": {"description": "Service unavailable"}
                }
            }
        },
        "/api/advice/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "Get packaging advice",
                "parameters": [
                    {"type": "string", "description": "Advice id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Advice"},
                    "404": {"description": "Advice not found"}
                }
            }
        },
        "/api/advice/{id}/apply-tags": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Replaces the engine-owned tags on the order with one tag per advised box. Tags unknown to the order system are skipped.",
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "Write advice tags to the order",
                "parameters": [
                    {"type": "string", "description": "Advice id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Tags written"},
                    "404": {"description": "Advice not found"},
                    "502": {"description": "Order system unavailable"},
                    "503": {"description": "Order system not configured or circuit open"}
                }
            }
        },
        "/api/advice/{id}/outcome": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "Record how the order was actually packed",
                "parameters": [
                    {"type": "string", "description": "Advice id", "name": "id", "in": "path", "required": true},
                    {"description": "Boxes actually used", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordOutcomeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Outcome"},
                    "400": {"description": "Bad request - invalid input"},
                    "404": {"description": "Advice not found"}
                }
            }
        },
        "/api/orders/{orderId}/advice": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Advice"],
                "summary": "Get the current advice of an order",
                "parameters": [
                    {"type": "integer", "description": "Order id", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Advice"},
                    "400": {"description": "Bad request - invalid order id"},
                    "404": {"description": "Order has no active advice"}
                }
            }
        },
        "/api/costs": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns the representative cost entry per box SKU for a destination country.",
                "produces": ["application/json"],
                "tags": ["Costs"],
                "summary": "Cost summary per box",
                "parameters": [
                    {"type": "string", "description": "ISO country code", "name": "country", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Cost summary"},
                    "400": {"description": "Bad request - missing country"},
                    "503": {"description": "Cost data unavailable"}
                }
            }
        },
        "/api/costs/invalidate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Called by the cost table publisher after a new price list is published. Clears the local cache and notifies other replicas.",
                "produces": ["application/json"],
                "tags": ["Costs"],
                "summary": "Invalidate the cost cache",
                "responses": {
                    "200": {"description": "Cache invalidated"},
                    "401": {"description": "Unauthorized - missing or invalid token"}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "Service is alive"}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Service is ready"},
                    "503": {"description": "Service is not ready"}
                }
            }
        }
    },
    "definitions": {
        "CalculateAdviceRequest": {
            "type": "object",
            "required": ["orderId", "products"],
            "properties": {
                "orderId": {"type": "integer", "example": 12345},
                "pickId": {"type": "integer", "example": 777},
                "shippingProviderProfileId": {"type": "integer", "example": 3},
                "countryCode": {"type": "string", "example": "NL"},
                "products": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "productId": {"type": "integer", "example": 1001},
                            "productCode": {"type": "string", "example": "PLANT-12"},
                            "quantity": {"type": "integer", "example": 2}
                        }
                    }
                }
            }
        },
        "RecordOutcomeRequest": {
            "type": "object",
            "properties": {
                "actualBoxes": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "externalContainerId": {"type": "integer", "example": 42}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"description": "Packaging advice calculation, tags and feedback", "name": "Advice"},
        {"description": "Published box cost table", "name": "Costs"},
        {"description": "Health check endpoints", "name": "Health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Packaging Advice API",
	Description:      "API for recommending the cheapest set of shipping boxes for a warehouse order.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
