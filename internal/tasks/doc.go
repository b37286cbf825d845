// Package tasks talks to the Google Tasks API (tasks/v1).
//
// The dashboard needs four calls: the user's task lists, the open tasks of
// one list, creating a task and patching its status. Client authenticates
// each request with the current access token of a credential store and
// turns failures into *google.APIError.
//
//	client, err := tasks.NewClient(ctx, creds)
//	lists, err := client.ListTaskLists(ctx)
//	task, err := client.CreateTask(ctx, lists[0].ID, tasks.TaskInput{Title: "Buy milk"})
//	_, err = client.UpdateTask(ctx, lists[0].ID, task.ID, tasks.StatusPatch(tasks.StatusCompleted))
package tasks
