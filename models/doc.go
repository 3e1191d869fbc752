// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Results

Operations return Result[T], either a value or an *ActionError whose Kind
tells the transport layer how to report it.

# Constants

Roles:

	RoleStudent, RoleOrganizer, RoleAdmin

Invite status:

	InvitePending, InviteAccepted, InviteDeclined

Check-in status:

	CheckInRecorded      = "checked_in"
	CheckInAlreadyMarked = "already_marked"
*/
package models
