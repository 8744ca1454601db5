package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Inspire Studio API",
        "description": "Billing, renewals and financial reporting for the studio dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Plans", "description": "Plan catalogue"},
        {"name": "Enrollments", "description": "Members and contract lifecycle"},
        {"name": "Renewals", "description": "Contract expiry and renewal history"},
        {"name": "Payments", "description": "Member payments and card fees"},
        {"name": "Expenses", "description": "Accounts payable"},
        {"name": "FeeRates", "description": "Card processing fee table"},
        {"name": "Finance", "description": "Monthly report and projections"},
        {"name": "Reserve", "description": "Emergency reserve"},
        {"name": "Celebrations", "description": "Birthdays and anniversaries"},
        {"name": "Exports", "description": "CSV and PDF report files"},
        {"name": "Imports", "description": "Legacy spreadsheet imports"}
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
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/plans": {
            "get": {
                "tags": ["Plans"],
                "summary": "List plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plans"],
                "summary": "Create plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Plan name already exists"}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "plan", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Register member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unknown plan"}
                }
            }
        },
        "/enrollments/{id}/freeze": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Freeze enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "at", "in": "query", "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enrollment is not active"}
                }
            }
        },
        "/enrollments/{id}/reactivate": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Reactivate enrollment",
                "description": "Ends a freeze and pushes the cycle start forward by the frozen days",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "at", "in": "query", "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Freeze window shorter than one day"}
                }
            }
        },
        "/enrollments/{id}/renew": {
            "post": {
                "tags": ["Renewals"],
                "summary": "Renew contract",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/renewals/outlook": {
            "get": {
                "tags": ["Renewals"],
                "summary": "Contract expiry outlook",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments for a competence month",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Payments"],
                "summary": "Record payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No fee rate for the card combination"}
                }
            }
        },
        "/expenses": {
            "get": {
                "tags": ["Expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Expenses"],
                "summary": "Create expense",
                "description": "Recurring entries and installment totals are expanded into per-month rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/expenses/{id}/settle": {
            "post": {
                "tags": ["Expenses"],
                "summary": "Settle expense",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SettleExpenseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Expense already paid"}
                }
            }
        },
        "/fee-rates": {
            "get": {
                "tags": ["FeeRates"],
                "summary": "List fee rates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["FeeRates"],
                "summary": "Create or replace a fee rate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertFeeRateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/payments": {
            "post": {
                "tags": ["Imports"],
                "summary": "Import legacy payment rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportPaymentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/fee-rates": {
            "post": {
                "tags": ["Imports"],
                "summary": "Import legacy fee rate rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportFeeRatesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/report": {
            "get": {
                "tags": ["Finance"],
                "summary": "Monthly financial report",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "An active enrollment references a missing plan"}
                }
            }
        },
        "/finance/projection": {
            "get": {
                "tags": ["Finance"],
                "summary": "Revenue and expense projection",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reserve": {
            "get": {
                "tags": ["Reserve"],
                "summary": "Reserve overview",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reserve/movements": {
            "post": {
                "tags": ["Reserve"],
                "summary": "Record reserve movement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReserveMovementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Withdrawal exceeds product balance"}
                }
            }
        },
        "/celebrations": {
            "get": {
                "tags": ["Celebrations"],
                "summary": "Celebrations for a month",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/report": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export monthly report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an exported file",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File bytes"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePlanRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "monthly_price": {"type": "number"},
                "duration_months": {"type": "integer", "description": "0 means open ended"}
            },
            "required": ["name", "monthly_price"]
        },
        "RegisterMemberRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "birth_date": {"type": "string"},
                "plan_name": {"type": "string"},
                "first_enrolled_at": {"type": "string"},
                "discount_percent": {"type": "number"},
                "discount_reason": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["full_name", "plan_name", "first_enrolled_at"]
        },
        "RenewRequest": {
            "type": "object",
            "properties": {
                "plan_name": {"type": "string", "description": "Omit to keep the current plan"},
                "cycle_start": {"type": "string"}
            }
        },
        "RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "integer"},
                "paid_at": {"type": "string"},
                "competence_month": {"type": "integer"},
                "competence_year": {"type": "integer"},
                "gross_amount": {"type": "number"},
                "brand": {"type": "string"},
                "transaction_type": {"type": "string"},
                "installments": {"type": "string"},
                "method": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["enrollment_id", "competence_month", "competence_year", "gross_amount"]
        },
        "CreateExpenseRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "total_amount": {"type": "number"},
                "competence_month": {"type": "integer"},
                "competence_year": {"type": "integer"},
                "category": {"type": "string", "enum": ["FIXED", "VARIABLE", "ONE_OFF"]},
                "installments": {"type": "integer"},
                "recurring": {"type": "boolean"},
                "due_date": {"type": "string"},
                "method": {"type": "string"}
            },
            "required": ["description", "total_amount", "competence_month", "competence_year", "category"]
        },
        "SettleExpenseRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "paid_at": {"type": "string"},
                "method": {"type": "string"}
            },
            "required": ["amount"]
        },
        "UpsertFeeRateRequest": {
            "type": "object",
            "properties": {
                "brand": {"type": "string"},
                "transaction_type": {"type": "string"},
                "installment_label": {"type": "string"},
                "fee_fraction": {"type": "number"}
            },
            "required": ["brand", "transaction_type", "installment_label", "fee_fraction"]
        },
        "ImportPaymentsRequest": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "enrollment_id": {"type": "integer"},
                            "paid_at": {"type": "string"},
                            "competence_month": {"type": "integer"},
                            "competence_year": {"type": "integer"},
                            "gross_amount": {"type": "string"},
                            "brand": {"type": "string"},
                            "transaction_type": {"type": "string"},
                            "installments": {"type": "string"},
                            "method": {"type": "string"},
                            "notes": {"type": "string"}
                        }
                    }
                }
            },
            "required": ["rows"]
        },
        "ImportFeeRatesRequest": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "brand": {"type": "string"},
                            "transaction_type": {"type": "string"},
                            "installment_label": {"type": "string"},
                            "fee": {"type": "string"}
                        }
                    }
                }
            },
            "required": ["rows"]
        },
        "ReserveMovementRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "type": {"type": "string", "enum": ["DEPOSIT", "WITHDRAWAL"]},
                "product": {"type": "string"},
                "amount": {"type": "number"},
                "description": {"type": "string"}
            },
            "required": ["type", "product", "amount"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "month": {"type": "integer"},
                "year": {"type": "integer"}
            },
            "required": ["format", "month", "year"]
        },
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
