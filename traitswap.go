// Package traitswap gives every player on a Dragonfly server one random
// trait and swaps traits between a victim and their killer.
//
// Traits are drawn from a shared pool without replacement: no trait is
// handed out twice until every trait has been handed out once, after which
// the pool starts a new cycle. Assignments survive restarts through a
// store.Store.
//
// # Quick Start
//
//	mngr, err := traitswap.NewBuilder().
//	    Store(yamlstore.New("traits.yml")).
//	    Logger(log).
//	    Init(ctx)
//	if err != nil {
//	    return err
//	}
//	defer mngr.Shutdown(context.Background())
//	traitswap.RegisterCommands()
//
//	for p := range srv.Accept() {
//	    sess, err := mngr.NewSession(p)
//	    if err != nil {
//	        p.Disconnect("failed to initialize session")
//	        continue
//	    }
//	    p.Handle(traitswap.NewHandler(sess))
//	}
//
// # Lifecycle
//
//	join     assign a trait if needed, apply it and heal to full
//	respawn  reapply the trait a tick later, without healing
//	death    swap traits with the killer, if another player killed you
//	/trait   show your current trait
//
// # Hosts
//
// The Coordinator only talks to the Player and TaskScheduler interfaces, so
// it can be driven by something other than Dragonfly. NewPlayer adapts a
// *player.Player; Manager is the Dragonfly TaskScheduler.
package traitswap

// Version is the traitswap version.
const Version = "1.0.0"
