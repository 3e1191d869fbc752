// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the hackdesk API server.

hackdesk manages hackathon participation: students form teams, invite
teammates by email, show a QR code at check-in and submit a project link.
Organizers run hackathons, their problem statements and attendance
schedules.

# Starting the Server

	DATABASE_URL=hackdesk.db JWT_SECRET=dev go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..." --jwt-secret dev

Staff accounts are created from the command line:

	go run . user create --email olga@example.com --name Olga --role ORGANIZER --password ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL, TOKEN_TTL, ENV
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, MAIL_FROM

A YAML file passed with -c (or HACKDESK_CONFIG) fills anything not set by
flags or the environment.

# Architecture

  - cli: cobra commands (serve, migrate, token, user create)
  - router: Route definitions using Go 1.22+ routing
  - handlers: HTTP request handlers
  - actions: team, invitation, attendance and submission operations
  - invite: invitation rules and state transitions
  - middleware: auth, CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: ids, passwords and bearer tokens
  - qr: check-in code payloads and images
  - mailer: outgoing email
  - db: connection and schema
  - cliparse: Configuration parsing
*/
package main
