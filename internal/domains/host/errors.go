package host

import "errors"

var (
	ErrHostNotFound = errors.New("host profile not found or not verified")

	ErrAlreadyApplied         = errors.New("host profile already exists for this user")
	ErrSocialLinkTaken        = errors.New("social link is already claimed by another host")
	ErrAlreadyReviewed        = errors.New("host application has already been reviewed")
	ErrNotVerified            = errors.New("host profile is not verified")
	ErrPhotoUploadUnsupported = errors.New("unsupported photo content type")
)
