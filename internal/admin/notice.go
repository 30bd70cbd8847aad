package admin

// Notices is the notification state of one panel: at most one success
// message, at most one error message and a loading flag.
//
// A success message is removed by Expire with the sequence number returned
// from Succeed, so an old timer cannot remove a newer message.
type Notices struct {
	success    string
	successSeq uint64
	err        string
	pending    int
}

func (n *Notices) Succeed(msg string) uint64 {
	n.successSeq++
	n.success = msg
	return n.successSeq
}

// Expire clears the success message if seq still identifies it.
func (n *Notices) Expire(seq uint64) bool {
	if seq != n.successSeq || n.success == "" {
		return false
	}
	n.success = ""
	return true
}

// Fail replaces the error message and hides the loading indicator.
func (n *Notices) Fail(msg string) {
	n.err = msg
	n.pending = 0
}

// StartLoading shows the loading indicator and clears the error.
func (n *Notices) StartLoading() {
	n.pending++
	n.err = ""
}

func (n *Notices) StopLoading() {
	if n.pending > 0 {
		n.pending--
	}
}

func (n *Notices) ClearError() { n.err = "" }

func (n *Notices) Success() string    { return n.success }
func (n *Notices) SuccessSeq() uint64 { return n.successSeq }
func (n *Notices) Error() string      { return n.err }
func (n *Notices) Loading() bool      { return n.pending > 0 }
