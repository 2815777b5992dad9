// Package docs 注册 swagger 文档，由 swag init 生成后手工精简
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/v1/posts/": {
            "get": {"tags": ["帖子"], "summary": "帖子列表（分页）", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "string", "name": "group", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "创建帖子", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/v1/posts/{post_id}/": {
            "get": {"tags": ["帖子"], "summary": "帖子详情", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "更新帖子", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "部分更新帖子", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "删除帖子", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/v1/posts/{post_id}/comments/": {
            "get": {"tags": ["评论"], "summary": "评论列表", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["评论"], "summary": "发表评论", "parameters": [{"type": "string", "name": "post_id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/v1/posts/{post_id}/comments/{comment_id}/": {
            "get": {"tags": ["评论"], "summary": "评论详情", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["评论"], "summary": "修改评论", "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["评论"], "summary": "修改评论", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["评论"], "summary": "删除评论", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/groups/": {
            "get": {"tags": ["分组"], "summary": "分组列表", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/groups/{group_id}/": {
            "get": {"tags": ["分组"], "summary": "分组详情", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/v1/createuser/": {
            "post": {"tags": ["用户"], "summary": "注册用户", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/api-token-auth/": {
            "post": {"tags": ["用户"], "summary": "获取令牌", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/follow/": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "关注作者", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/follow/{username}/": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "取消关注", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/users/{username}/following": {
            "get": {"tags": ["关系链"], "summary": "查询关注列表", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/users/{username}/followers": {
            "get": {"tags": ["关系链"], "summary": "查询粉丝列表（来自冗余表）", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Yatube API",
	Description:      "博客平台：帖子、分组、评论与关注",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
