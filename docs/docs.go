// Package docs holds the hand-maintained Swagger specification (in the
// layout swag init generates) for the ApexVelocity path-optimizer API,
// registered with swaggo/swag and served
// via swaggo/http-swagger at /swagger/*.
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
                "description": "Liveness check",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/plan": {
            "post": {
                "description": "Computes a smooth, collision-free path from a start pose to an end pose along a reference polyline",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["planning"],
                "summary": "Plan an Ackermann-feasible path",
                "parameters": [
                    {
                        "description": "plan request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.PlanRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/api.PlanResponse"}
                    },
                    "400": {"description": "Bad Request"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/config/reload": {
            "post": {
                "description": "Reloads vehicle presets and optimizer weights from the config directory",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Reload configuration",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        }
    },
    "definitions": {
        "api.PlanRequest": {
            "type": "object",
            "properties": {
                "reference": {"type": "array", "items": {"$ref": "#/definitions/api.PointXY"}},
                "start": {"$ref": "#/definitions/api.PoseXYZ"},
                "end": {"$ref": "#/definitions/api.PoseXYZ"},
                "vehicle": {"type": "string"},
                "map": {"$ref": "#/definitions/api.MapExtent"},
                "obstacles": {"type": "array", "items": {"$ref": "#/definitions/api.CircleObstacleDTO"}}
            }
        },
        "api.PlanResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "array", "items": {"$ref": "#/definitions/api.StateDTO"}},
                "smoothed_path": {"type": "array", "items": {"$ref": "#/definitions/api.StateDTO"}}
            }
        },
        "api.PointXY": {
            "type": "object",
            "properties": {"x": {"type": "number"}, "y": {"type": "number"}}
        },
        "api.PoseXYZ": {
            "type": "object",
            "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"},
                "heading_rad": {"type": "number"},
                "curvature": {"type": "number"}
            }
        },
        "api.MapExtent": {
            "type": "object",
            "properties": {
                "min_x": {"type": "number"},
                "min_y": {"type": "number"},
                "max_x": {"type": "number"},
                "max_y": {"type": "number"}
            }
        },
        "api.CircleObstacleDTO": {
            "type": "object",
            "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"},
                "radius_m": {"type": "number"}
            }
        },
        "api.StateDTO": {
            "type": "object",
            "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"},
                "heading_rad": {"type": "number"},
                "s_m": {"type": "number"},
                "curvature": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ApexVelocity Path Optimizer API",
	Description:      "Reference-following, collision-aware path planning for Ackermann-steered vehicles",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
