package service

import "errors"

var (
	ErrInvalidSource    = errors.New("invalid share source")
	ErrBookNotFound     = errors.New("book not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignExists   = errors.New("book already has a campaign")
	ErrEmptyUpdate      = errors.New("no fields to update")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAlreadyCompleted = errors.New("ticket already completed")
	ErrDuplicateAccept  = errors.New("acceptor already accepted this ticket")
	ErrExpired          = errors.New("ticket expired")
	ErrAlreadyFull      = errors.New("ticket already has enough acceptors")
	ErrUserNotFound     = errors.New("user not found")
	// ErrConflict means a concurrent writer won the single-row race and a
	// retry against fresh state lost again.
	ErrConflict = errors.New("lost concurrent update race")
	// ErrPartialShift means a rank shift fan-out did not complete in full;
	// the rank index may be non-contiguous until the shift is retried.
	ErrPartialShift = errors.New("rank shift did not complete in full")
)
