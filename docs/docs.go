// Package docs registers the OpenAPI document served under /swagger.
// Keep it in step with the swag annotations on the handlers; docs_test.go checks that it is.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/captions": {
            "post": {
                "description": "Add a caption for an already uploaded image, usually one picked by /images/random",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["captions"],
                "summary": "Caption an uploaded image",
                "parameters": [
                    {
                        "description": "Caption",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.CaptionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CaptionRecord"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/dataset/archive": {
            "get": {
                "description": "Download every image and both metadata tables as a zip archive",
                "produces": ["application/zip"],
                "tags": ["dataset"],
                "summary": "Download the dataset",
                "responses": {
                    "200": {"description": "Zip archive"},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/images": {
            "post": {
                "description": "Store an image (png, jpg, jpeg, gif, bmp) together with its first caption",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Upload and caption an image",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Caption text", "name": "caption", "in": "formData", "required": true},
                    {"type": "string", "description": "Language name or code", "name": "language", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CaptionRecord"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/images/random": {
            "get": {
                "description": "Pick one uploaded image uniformly at random for secondary captioning",
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Pick a random uploaded image",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RandomImageResponse"}},
                    "404": {"description": "No images available yet", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/images/{kind}/{filename}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["images"],
                "summary": "Download a stored image",
                "parameters": [
                    {"type": "string", "description": "uploaded or captioned", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Stored file name", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Image content"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/languages": {
            "get": {
                "description": "Get the closed set of languages a caption can be written in",
                "produces": ["application/json"],
                "tags": ["languages"],
                "summary": "List caption languages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Language"}}}
                }
            }
        },
        "/api/v1/records": {
            "get": {
                "description": "List rows of both tables written in the given language",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List rows of one language",
                "parameters": [
                    {"type": "string", "description": "Language name or code", "name": "language", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SourcedRecord"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/records/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List metadata rows",
                "parameters": [
                    {"type": "string", "description": "uploaded or captioned", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CaptionRecord"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Dataset statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DatasetStats"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CaptionRequest": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "filename": {"type": "string"},
                "language": {"type": "string"}
            }
        },
        "handlers.RandomImageResponse": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"}
            }
        },
        "models.CaptionRecord": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "fileSize": {"type": "integer"},
                "filename": {"type": "string"},
                "language": {"type": "string"},
                "languageCode": {"type": "string"},
                "originalName": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.DatasetStats": {
            "type": "object",
            "properties": {
                "captionedImages": {"type": "integer"},
                "captionedRecords": {"type": "integer"},
                "languageDistribution": {"type": "object", "additionalProperties": {"type": "integer"}},
                "languages": {"type": "integer"},
                "totalImages": {"type": "integer"},
                "uploadedImages": {"type": "integer"},
                "uploadedRecords": {"type": "integer"}
            }
        },
        "models.Language": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "models.SourcedRecord": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "fileSize": {"type": "integer"},
                "filename": {"type": "string"},
                "language": {"type": "string"},
                "languageCode": {"type": "string"},
                "originalName": {"type": "string"},
                "source": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Caption Dataset API",
	Description:      "API for collecting multilingual image captions and exporting them as a dataset archive",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
