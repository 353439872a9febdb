package balsa

import "github.com/balsa-http/balsa/status"

func headerLimitError(trailer bool) status.Code {
	if trailer {
		return status.TrailerTooLong
	}

	return status.HeadersTooLong
}
