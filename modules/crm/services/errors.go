package services

import "github.com/nextdoorextsolutions/roofline/pkg/serrors"

var (
	ErrForbidden = serrors.NewError(
		"AUTHZ_FORBIDDEN", "permission denied", "Authorization.PermissionDenied")
	ErrJobNotFound = serrors.NewError(
		"JOB_NOT_FOUND", "job not found", "Jobs.NotFound")
	ErrUserNotFound = serrors.NewError(
		"USER_NOT_FOUND", "user not found", "Users.NotFound")
	ErrHistoryEntryNotFound = serrors.NewError(
		"HISTORY_ENTRY_NOT_FOUND", "history entry not found", "History.NotFound")
	ErrCommissionRequestNotFound = serrors.NewError(
		"COMMISSION_REQUEST_NOT_FOUND", "commission request not found", "Commissions.NotFound")
	ErrAlreadySubmitted = serrors.NewError(
		"COMMISSION_ALREADY_SUBMITTED", "an active bonus request already exists for this job", "Commissions.AlreadySubmitted")
)
