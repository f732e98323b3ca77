// Package bookfinder embeds the hybrid book retrieval engine in a Go program
// without running the HTTP server.
//
// Passages live in a Redis 8+ (or Redis Stack) FT index. Each query is embedded,
// matched against the vector index and BM25-scored against the corpus, and the
// fused candidates are collapsed into at most one result per book.
//
//	client, err := bookfinder.New(
//	    bookfinder.WithRedis("localhost:6379", ""),
//	    bookfinder.WithEmbedder(myEmbedder),
//	    bookfinder.WithTopK(5),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	books, err := client.Search(ctx, "truyện khoa học viễn tưởng", bookfinder.Lang("vi"))
package bookfinder
