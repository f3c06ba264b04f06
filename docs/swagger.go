// Package docs registers the OpenAPI description served at /swagger.
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
        "/register": {"post": {"tags": ["Users"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["Users"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/health": {"get": {"tags": ["Health"], "summary": "Liveness and database check", "responses": {"200": {"description": "OK"}}}},
        "/tasks": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "List active tasks", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "Create a task", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/recycle-bin": {"get": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "List soft-deleted tasks", "responses": {"200": {"description": "OK"}}}},
        "/tasks/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "Get a task with subtasks and attachments", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "Update a task", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "Move a task to the recycle bin", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/tasks/{id}/restore": {"post": {"security": [{"BearerAuth": []}], "tags": ["Tasks"], "summary": "Restore a task from the recycle bin", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tasks/{id}/subtasks": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Subtasks"], "summary": "List a task's subtasks", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Subtasks"], "summary": "Add subtasks to a task", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/subtasks/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Subtasks"], "summary": "Rename a subtask", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Subtasks"], "summary": "Delete a subtask", "responses": {"200": {"description": "OK"}}}
        },
        "/subtasks/{id}/toggle": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Subtasks"], "summary": "Flip a subtask's completion", "responses": {"200": {"description": "OK"}}}},
        "/tasks/{id}/attachments": {"post": {"security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "tags": ["Attachments"], "summary": "Upload attachments to a task", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/tasks/{id}/attachments/{attachment_id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["Attachments"], "summary": "Remove an attachment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["Levels"], "summary": "Progress summary", "responses": {"200": {"description": "OK"}}}},
        "/levels": {"get": {"security": [{"BearerAuth": []}], "tags": ["Levels"], "summary": "List levels", "responses": {"200": {"description": "OK"}}}},
        "/level/seen": {"post": {"security": [{"BearerAuth": []}], "tags": ["Levels"], "summary": "Acknowledge a level celebration", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "To-Do API",
	Description:      "Personal task manager with subtasks, attachments, a recycle bin and completion levels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
