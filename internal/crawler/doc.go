// Package crawler implements the document acquisition pipeline: the
// retrying fetcher, content classification and extraction, link discovery,
// the recursive crawl controller, the paginated-search controller, and the
// record sink.
package crawler
