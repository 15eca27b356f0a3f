// Package docs is generated by swaggo/swag from the handler annotations.
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
                "tags": [
                    "health"
                ],
                "summary": "Liveness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health/ready": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Readiness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Login",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.loginRequest"
                        }
                    }
                ]
            }
        },
        "/auth/register": {
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
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.registerRequest"
                        }
                    }
                ]
            }
        },
        "/auth/logout": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Logout",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Current user",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                }
            }
        },
        "/preferences/theme": {
            "get": {
                "tags": [
                    "preferences"
                ],
                "summary": "Theme preference",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "tags": [
                    "preferences"
                ],
                "summary": "Set theme",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.themeRequest"
                        }
                    }
                ]
            }
        },
        "/preferences/theme/toggle": {
            "post": {
                "tags": [
                    "preferences"
                ],
                "summary": "Toggle theme",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/chat": {
            "post": {
                "tags": [
                    "chat"
                ],
                "summary": "Chat",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.chatRequest"
                        }
                    }
                ]
            }
        },
        "/chat/questions": {
            "get": {
                "tags": [
                    "chat"
                ],
                "summary": "Suggested chat questions",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register/student": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Start a student registration",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register/student/{id}": {
            "get": {
                "tags": [
                    "registration"
                ],
                "summary": "Get a registration draft",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/register/student/{id}/next": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Advance the registration",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/wizard.Input"
                        }
                    }
                ]
            }
        },
        "/register/student/{id}/back": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Go back one step",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/register/student/{id}/submit": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Submit the registration",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/dashboard/admin": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Admin dashboard",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                }
            }
        },
        "/dashboard/faculty": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Faculty dashboard",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                }
            }
        },
        "/dashboard/student": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Student dashboard",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                }
            }
        },
        "/dashboard/parent": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Parent dashboard",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "child",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/students/directory": {
            "get": {
                "tags": [
                    "students"
                ],
                "summary": "Student directory",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "class",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "name": "section",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "name": "fee_status",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/admin/users/{id}/approve": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Approve a pending user",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/users/{id}/reject": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Reject a pending user",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/classes": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Create a class",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.classRequest"
                        }
                    }
                ]
            }
        },
        "/admin/classes/{id}": {
            "delete": {
                "tags": [
                    "admin"
                ],
                "summary": "Delete a class",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/sections": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Create a section",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.NewSection"
                        }
                    }
                ]
            }
        },
        "/admin/fee-structures": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Create a fee structure",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.NewFeeStructure"
                        }
                    }
                ]
            }
        },
        "/admin/students/{id}": {
            "delete": {
                "tags": [
                    "admin"
                ],
                "summary": "Delete a student",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/faculty/{id}": {
            "delete": {
                "tags": [
                    "admin"
                ],
                "summary": "Delete a faculty member",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/reports/fees/classes": {
            "get": {
                "tags": [
                    "admin"
                ],
                "summary": "Class-wise fee report",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/reports/fees/sections": {
            "get": {
                "tags": [
                    "admin"
                ],
                "summary": "Section-wise fee report",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "class",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/faculty/attendance": {
            "post": {
                "tags": [
                    "faculty"
                ],
                "summary": "Mark attendance",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.AttendanceSheet"
                        }
                    }
                ]
            }
        },
        "/faculty/marks": {
            "post": {
                "tags": [
                    "faculty"
                ],
                "summary": "Upload marks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.NewMarks"
                        }
                    }
                ]
            }
        },
        "/parent/children": {
            "post": {
                "tags": [
                    "parent"
                ],
                "summary": "Link a child",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.linkChildRequest"
                        }
                    }
                ]
            }
        },
        "/parent/children/{id}": {
            "get": {
                "tags": [
                    "parent"
                ],
                "summary": "Child records",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/payments/order": {
            "post": {
                "tags": [
                    "payments"
                ],
                "summary": "Create a payment order",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.orderRequest"
                        }
                    }
                ]
            }
        },
        "/payments/verify": {
            "post": {
                "tags": [
                    "payments"
                ],
                "summary": "Verify a payment",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.errorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.PaymentVerification"
                        }
                    }
                ]
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "step": {
                    "type": "string"
                },
                "stage": {
                    "type": "string"
                },
                "redirect": {
                    "type": "string"
                }
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "handler.registerRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password",
                "name",
                "role"
            ]
        },
        "handler.themeRequest": {
            "type": "object",
            "properties": {
                "theme": {
                    "type": "string"
                }
            },
            "required": [
                "theme"
            ]
        },
        "handler.chatRequest": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        },
        "handler.classRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "handler.linkChildRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                }
            }
        },
        "handler.orderRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "fee": {
                    "type": "object"
                }
            }
        },
        "wizard.Input": {
            "type": "object",
            "properties": {
                "auth": {
                    "type": "object"
                },
                "personal": {
                    "type": "object"
                },
                "academic": {
                    "type": "object"
                },
                "guardian": {
                    "type": "object"
                }
            }
        },
        "domain.NewSection": {
            "type": "object",
            "properties": {
                "class_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "capacity": {
                    "type": "integer"
                }
            },
            "required": [
                "class_id",
                "name"
            ]
        },
        "domain.NewFeeStructure": {
            "type": "object",
            "properties": {
                "class_id": {
                    "type": "string"
                },
                "section": {
                    "type": "string"
                },
                "tuition_fee": {
                    "type": "number"
                },
                "exam_fee": {
                    "type": "number"
                },
                "lab_fee": {
                    "type": "number"
                },
                "transport": {
                    "type": "number"
                },
                "scholarship": {
                    "type": "number"
                },
                "frequency": {
                    "type": "string"
                }
            },
            "required": [
                "class_id"
            ]
        },
        "domain.NewMarks": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "subject": {
                    "type": "string"
                },
                "exam_name": {
                    "type": "string"
                },
                "marks_obtained": {
                    "type": "number"
                },
                "total_marks": {
                    "type": "number"
                },
                "grade": {
                    "type": "string"
                },
                "exam_date": {
                    "type": "string"
                }
            },
            "required": [
                "student_id",
                "subject",
                "exam_name"
            ]
        },
        "domain.PaymentVerification": {
            "type": "object",
            "properties": {
                "razorpay_order_id": {
                    "type": "string"
                },
                "razorpay_payment_id": {
                    "type": "string"
                },
                "razorpay_signature": {
                    "type": "string"
                },
                "fee_id": {
                    "type": "string"
                },
                "student_id": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                }
            },
            "required": [
                "razorpay_order_id",
                "razorpay_payment_id",
                "razorpay_signature",
                "fee_id",
                "student_id"
            ]
        },
        "service.AttendanceSheet": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "present": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "School Portal API",
	Description:      "Backend-for-frontend of the school portal: sessions, registration wizard, role dashboards, payments and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
