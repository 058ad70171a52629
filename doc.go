/*
Package sqslisten polls AWS SQS queues in the background and hands every
received message, or receive failure, to a caller-supplied handler.

Each Listen call starts one goroutine that loops over receive, dispatch and
delete. Dispatch is synchronous and in arrival order, and a message is
deleted from the queue as soon as its handler invocation returns, whether or
not the handler reported an error. Retry and redelivery therefore belong to
the handler, typically via an SQS Dead Letter Queue.

# Basic Usage

	listener, err := sqslisten.New(ctx, sqslisten.Config{Region: "eu-central-1"})
	if err != nil {
		log.Fatal(err)
	}

	handle := listener.Listen(ctx, sqslisten.ReceiveRequest{
		QueueURL:            queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	}, sqslisten.HandlerFunc(func(ctx context.Context, msg *sqslisten.Message, recvErr error) error {
		if recvErr != nil {
			log.WithError(recvErr).Error("receive failed")
			return nil
		}
		log.Infof("got message %s", msg.Body)
		return nil
	}))

	// ...

	handle.Stop()

Stop returns once the loop has fully wound down; messages already received
at that point are still dispatched and deleted first.
*/
package sqslisten
