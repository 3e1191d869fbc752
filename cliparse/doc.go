/*
Package cliparse handles command-line flags and configuration.

BindFlags registers the flags on a pflag.FlagSet (the cli package binds
them as cobra persistent flags). Resolve fills what the flags left unset.

Precedence, highest first:

	flags → environment (.env loaded by godotenv) → YAML file → defaults

The YAML file comes from -c/--config or HACKDESK_CONFIG.

# Validation

Resolve fails when DATABASE_URL or JWT_SECRET is missing, when
DATABASE_TYPE is not sqlite or postgres, or when PORT, SMTP_PORT or
TOKEN_TTL cannot be parsed.
*/
package cliparse
