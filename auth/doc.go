/*
Package auth is for authentication and authorization. It contains the Principal type, the Role ladder and the capability tables.

Roles

Each principal bears exactly one role: Author, Editor, Publisher or Admin. Roles are totally ordered and each role's capability set is a superset of the one below it. The highest role wins, so role assignment replaces the previous role instead of accumulating memberships.

Capabilities

A capability is a named permission which the workflow engine checks before a mutating operation. The capability set is closed; the tables in capability.go enumerate it per role. Editing is not a single capability but a small decision procedure, see core.
*/
package auth
