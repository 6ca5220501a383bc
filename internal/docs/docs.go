// Package docs registers the OpenAPI document served under /swagger
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register an account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.RegisterRequest"
						}
					}
				]
			}
		},
		"/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.LoginRequest"
						}
					}
				]
			}
		},
		"/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Revoke the presented token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth-check": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Check the presented token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/request_register": {
			"post": {
				"tags": [
					"requests"
				],
				"summary": "Report a location needing cleanup",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.CreateRequestRequest"
						}
					}
				]
			}
		},
		"/user_requests": {
			"get": {
				"tags": [
					"requests"
				],
				"summary": "List the caller's requests",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/volunteer_requests": {
			"get": {
				"tags": [
					"requests"
				],
				"summary": "List requests in the caller's pincode",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/request/{id}": {
			"get": {
				"tags": [
					"requests"
				],
				"summary": "Get a request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/managerequest": {
			"get": {
				"tags": [
					"requests"
				],
				"summary": "List all requests",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"requests"
				],
				"summary": "Update a request's status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.UpdateRequestStatusRequest"
						}
					},
					{
						"in": "query",
						"name": "id",
						"type": "integer"
					}
				]
			}
		},
		"/camp_register": {
			"post": {
				"tags": [
					"campaigns"
				],
				"summary": "Create a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.CampRegisterRequest"
						}
					}
				]
			}
		},
		"/managecamp": {
			"get": {
				"tags": [
					"campaigns"
				],
				"summary": "Get one or all campaigns",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "query",
						"name": "id",
						"type": "integer"
					}
				]
			},
			"post": {
				"tags": [
					"campaigns"
				],
				"summary": "Create a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.CreateCampaignRequest"
						}
					}
				]
			},
			"put": {
				"tags": [
					"campaigns"
				],
				"summary": "Update a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.UpdateCampaignRequest"
						}
					},
					{
						"in": "query",
						"name": "id",
						"type": "integer"
					}
				]
			},
			"delete": {
				"tags": [
					"campaigns"
				],
				"summary": "Delete a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "query",
						"name": "id",
						"type": "integer"
					}
				]
			}
		},
		"/managecamp/volunteers": {
			"get": {
				"tags": [
					"campaigns"
				],
				"summary": "List a campaign's volunteers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "query",
						"name": "id",
						"type": "integer"
					}
				]
			}
		},
		"/complete-campaign/{id}": {
			"post": {
				"tags": [
					"campaigns"
				],
				"summary": "Complete a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/complete-camp/{id}": {
			"post": {
				"tags": [
					"campaigns"
				],
				"summary": "Complete a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/join-campaign/{id}": {
			"post": {
				"tags": [
					"participation"
				],
				"summary": "Join a campaign as a volunteer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/camp_participate/{id}": {
			"post": {
				"tags": [
					"participation"
				],
				"summary": "Participate in a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/leave-campaign/{id}": {
			"post": {
				"tags": [
					"participation"
				],
				"summary": "Leave a campaign",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/user_camps": {
			"get": {
				"tags": [
					"participation"
				],
				"summary": "Planned campaigns near the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/volunteer_camps": {
			"get": {
				"tags": [
					"participation"
				],
				"summary": "Planned campaigns near the volunteer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/profile": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Get the caller's profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"users"
				],
				"summary": "Update the caller's profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.UpdateProfileRequest"
						}
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/toggle_block/{id}": {
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Block or unblock a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "integer"
					}
				]
			}
		},
		"/admin/award_badge": {
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Award a badge",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.AwardBadgeRequest"
						}
					}
				]
			}
		},
		"/badges": {
			"get": {
				"tags": [
					"badges"
				],
				"summary": "List the caller's badges",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leaderboard": {
			"get": {
				"tags": [
					"leaderboard"
				],
				"summary": "Volunteer leaderboard",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.ErrorBody"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"response.ErrorBody": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				}
			}
		},
		"services.RegisterRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"pincode": {
					"type": "string"
				},
				"latitude": {
					"type": "number"
				},
				"longitude": {
					"type": "number"
				}
			}
		},
		"services.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string"
				}
			}
		},
		"services.CreateRequestRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"pincode": {
					"type": "string"
				},
				"latitude": {
					"type": "number"
				},
				"longitude": {
					"type": "number"
				},
				"description": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"link": {
					"type": "string"
				}
			}
		},
		"services.UpdateRequestStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			}
		},
		"services.CampRegisterRequest": {
			"type": "object",
			"properties": {
				"requestId": {
					"type": "integer"
				},
				"campName": {
					"type": "string"
				},
				"dateOfCamp": {
					"type": "string"
				},
				"timeOfCamp": {
					"type": "string"
				},
				"numberOfVolunteers": {
					"type": "integer"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"services.CreateCampaignRequest": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "integer"
				},
				"date": {
					"type": "string"
				},
				"num_volunteers": {
					"type": "integer"
				},
				"timing": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"services.UpdateCampaignRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"request_id": {
					"type": "integer"
				},
				"date": {
					"type": "string"
				},
				"num_volunteers": {
					"type": "integer"
				},
				"timing": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"status": {
					"type": "string"
				}
			}
		},
		"services.UpdateProfileRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"pincode": {
					"type": "string"
				},
				"latitude": {
					"type": "number"
				},
				"longitude": {
					"type": "number"
				}
			}
		},
		"services.AwardBadgeRequest": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"icon": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "CleanEarth API",
	Description:      "Community waste cleanup requests, campaigns and volunteers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
