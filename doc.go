/*
Package healthwave runs a multi-step health survey over VK chat.

An operator triggers a wave with "!start <ids-file> <sheet-url>" in chat; the
bot enrolls every listed identity, asks each whether they are ill and walks
the ones that are through certificate, symptoms and last-attendance
questions. Every completed record is appended as one row to a Google Sheet.

The core is a pure stage machine (pkg/machine) fed by an event classifier
(pkg/classify), with per-respondent serialization provided by the session
manager (pkg/session). External collaborators — transport, profile lookup,
recipient list, result sink, record store — sit behind narrow interfaces in
pkg/ports, with adapters under pkg/adapters.

# Usage

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	app, err := healthwave.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(cfg.ListenAddr, app.Router())
*/
package healthwave
